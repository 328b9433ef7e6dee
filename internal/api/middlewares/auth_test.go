package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
	jwtutil "github.com/5w1tchy/library-api/internal/security/jwt"
)

type fakeUsers map[int64]models.User

func (f fakeUsers) lookup(_ context.Context, id int64) (models.User, error) {
	u, ok := f[id]
	if !ok {
		return models.User{}, errs.NotFound("user", id)
	}
	return u, nil
}

func setup(t *testing.T) (*middlewares.Authenticator, *jwtutil.Signer, fakeUsers) {
	t.Helper()
	signer := jwtutil.NewSigner(config.Auth{
		JWTSecret: "0123456789abcdef0123456789abcdef",
		AccessTTL: time.Minute,
		ClockSkew: time.Second,
		Issuer:    "library-api",
	})
	users := fakeUsers{
		1: {ID: 1, Username: "alice", Role: models.RoleUser, TokenVersion: 1},
		2: {ID: 2, Username: "root", Role: models.RoleAdmin, TokenVersion: 1},
	}
	return middlewares.NewAuthenticator(signer, users.lookup), signer, users
}

func token(t *testing.T, s *jwtutil.Signer, u models.User) string {
	t.Helper()
	tok, _, err := s.SignAccess(u)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok
}

func whoami(w http.ResponseWriter, r *http.Request) {
	id, ok := middlewares.IdentityFrom(r.Context())
	if !ok {
		_, _ = w.Write([]byte("guest"))
		return
	}
	_, _ = w.Write([]byte(id.Username))
}

func TestRequireAuth(t *testing.T) {
	auth, signer, users := setup(t)
	h := auth.RequireAuth(http.HandlerFunc(whoami))

	revoked := users[1]
	revoked.TokenVersion = 0

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"garbage", "Bearer nope", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"valid", token(t, signer, users[1]), http.StatusOK, "alice"},
		{"lowercase scheme", "bearer " + token(t, signer, users[1])[len("Bearer "):], http.StatusOK, "alice"},
		{"revoked", token(t, signer, revoked), http.StatusUnauthorized, ""},
		{"unknown user", token(t, signer, models.User{ID: 99, TokenVersion: 1}), http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("want %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("want body %q, got %q", tt.body, rec.Body.String())
			}
		})
	}
}

func TestOptionalAuthTreatsBadTokensAsGuest(t *testing.T) {
	auth, signer, users := setup(t)
	h := auth.OptionalAuth(http.HandlerFunc(whoami))

	for header, want := range map[string]string{
		"":                         "guest",
		"Bearer nope":              "guest",
		token(t, signer, users[1]): "alice",
	} {
		req := httptest.NewRequest(http.MethodGet, "/collection/check", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Errorf("header %q: got %d %q, want %q", header, rec.Code, rec.Body.String(), want)
		}
	}
}

func TestRequireRole(t *testing.T) {
	auth, signer, users := setup(t)
	h := auth.RequireRole(models.RoleAdmin, http.HandlerFunc(whoami))

	cases := map[string]int{
		token(t, signer, users[1]): http.StatusForbidden,
		token(t, signer, users[2]): http.StatusOK,
		"":                         http.StatusUnauthorized,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodPost, "/books", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("want %d, got %d", want, rec.Code)
		}
	}
}
