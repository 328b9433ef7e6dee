package middlewares

import (
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/models"
)

// RequireRole authenticates the caller and then checks their current role.
func (a *Authenticator) RequireRole(role models.Role, next http.Handler) http.Handler {
	return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			apperr.Unauthorized(w, r, "")
			return
		}
		if id.Role != role {
			apperr.Forbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
