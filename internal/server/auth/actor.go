// Package auth authenticates portal members and gates guarded operations by
// role tier.
package auth

import (
	"context"

	"github.com/dmitrijs2005/rpportal/internal/roles"
)

// Actor is the identity performing a request. The role is the one captured
// when the session was established.
type Actor struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  roles.Role `json:"role"`
}

type actorKey struct{}

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the actor stored by WithActor, or nil.
func ActorFromContext(ctx context.Context) *Actor {
	a, _ := ctx.Value(actorKey{}).(*Actor)
	return a
}
