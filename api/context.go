package api

import (
	"context"

	"github.com/rpupo63/portfolio-content-backend/models"
)

type keyType string

const userKey keyType = "user"

func ctxWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser returns the admin the request was authorized for
func ctxGetUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}
