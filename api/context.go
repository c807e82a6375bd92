package api

import (
	"context"

	"github.com/rpupo63/portfolio-backend/auth"
)

type keyType string

const sessionKey keyType = "session"

func ctxWithSession(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, sessionKey, claims)
}

// ctxGetSession returns the claims stored by the session guard, or nil on public routes.
func ctxGetSession(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(sessionKey).(*auth.Claims)
	return claims
}
