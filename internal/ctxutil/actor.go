// Package ctxutil provides context utilities that can be safely imported anywhere.
// It depends only on the role type, to avoid import cycles.
package ctxutil

import (
	"context"

	"github.com/example/blotter/internal/core/access"
)

// ActorKey is the context key for the acting caller.
// Exported so it can be used consistently across packages.
type ActorKey struct{}

// Actor is the caller performing a workflow action, as resolved by the host.
type Actor struct {
	// Name is written to performedBy columns.
	Name   string
	UserID *int64
	Role   access.Role
}

// System is the actor used when nothing was resolved.
var System = Actor{Name: "system", Role: access.RoleAdmin}

// WithActor returns a context with the actor embedded.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ActorKey{}, a)
}

// ActorFromContext returns the actor from context, or the zero Actor if not set.
func ActorFromContext(ctx context.Context) Actor {
	if v, ok := ctx.Value(ActorKey{}).(Actor); ok {
		return v
	}
	return Actor{}
}

// ActorOrSystem returns the actor from context, falling back to System.
func ActorOrSystem(ctx context.Context) Actor {
	a := ActorFromContext(ctx)
	if a.Name == "" {
		return System
	}
	return a
}
