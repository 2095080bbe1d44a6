package middleware

import (
	"context"

	"github.com/crewcast/shootflow-backend/internal/requests"
	"github.com/crewcast/shootflow-backend/pkg/enums"
)

type contextKey string

const ctxActor contextKey = "actor"

// WithActor injects the resolved actor into the context.
func WithActor(ctx context.Context, actor requests.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// ActorFromContext returns the resolved actor, if any.
func ActorFromContext(ctx context.Context) (requests.Actor, bool) {
	if ctx == nil {
		return requests.Actor{}, false
	}
	actor, ok := ctx.Value(ctxActor).(requests.Actor)
	return actor, ok
}

// RoleFromContext returns the resolved actor's position, or the empty string.
func RoleFromContext(ctx context.Context) enums.Position {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return ""
	}
	return actor.Role
}
