package middlewares

import (
	"context"

	"github.com/5w1tchy/library-api/internal/models"
)

// Identity is the authenticated caller as of this request.
type Identity struct {
	UserID   int64
	Username string
	Role     models.Role
}

const identityKey ctxKey = 1

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey).(Identity)
	return v, ok && v.UserID != 0
}
