package auth

import (
	"context"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

type ctxKey struct{}

func WithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the user attached by the authorization middleware.
func UserFrom(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(model.User)
	return u, ok
}
