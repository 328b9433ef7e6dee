package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/models"
	jwtutil "github.com/5w1tchy/library-api/internal/security/jwt"
)

// UserLookup loads the current state of a user by id.
type UserLookup func(ctx context.Context, id int64) (models.User, error)

// Authenticator verifies Bearer access tokens against the signer and the user's
// current token_version, so bumping the version revokes every live token.
type Authenticator struct {
	signer *jwtutil.Signer
	lookup UserLookup
}

func NewAuthenticator(signer *jwtutil.Signer, lookup UserLookup) *Authenticator {
	return &Authenticator{signer: signer, lookup: lookup}
}

var (
	errNoBearer     = errors.New("missing bearer token")
	errTokenRevoked = errors.New("token revoked")
)

func (a *Authenticator) identify(r *http.Request) (Identity, error) {
	tok, ok := bearer(r.Header.Get("Authorization"))
	if !ok {
		return Identity{}, errNoBearer
	}
	claims, err := a.signer.ParseAccess(tok)
	if err != nil {
		return Identity{}, err
	}
	uid, err := claims.UserID()
	if err != nil {
		return Identity{}, jwtutil.ErrInvalidToken
	}
	u, err := a.lookup(r.Context(), uid)
	if err != nil {
		return Identity{}, err
	}
	if u.TokenVersion != claims.TokenVersion {
		return Identity{}, errTokenRevoked
	}
	return Identity{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// RequireAuth rejects requests without a valid, unrevoked access token.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.identify(r)
		if err != nil {
			detail := "invalid token"
			switch {
			case errors.Is(err, errNoBearer):
				detail = "missing Authorization header"
			case errors.Is(err, errTokenRevoked):
				detail = "token revoked"
			}
			apperr.Unauthorized(w, r, detail)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// OptionalAuth attaches the identity when a valid token is present and
// otherwise lets the request through as a guest.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := a.identify(r); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func bearer(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}
