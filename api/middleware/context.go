package middleware

import (
	"context"

	"github.com/angelmondragon/stockroom-backend/internal/policy"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

type contextKey string

const (
	ctxEmployeeID   contextKey = "employee_id"
	ctxEmployeeName contextKey = "employee_name"
	ctxRole         contextKey = "actor_role"
)

func EmployeeIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxEmployeeID).(int64); ok {
		return v
	}
	return 0
}

func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return v
	}
	return ""
}

// ActorFromContext returns the authenticated employee. ok is false when the
// request did not pass through Auth.
func ActorFromContext(ctx context.Context) (policy.Actor, bool) {
	id := EmployeeIDFromContext(ctx)
	if id <= 0 {
		return policy.Actor{}, false
	}
	name, _ := ctx.Value(ctxEmployeeName).(string)
	return policy.Actor{EmployeeID: id, Name: name, Role: RoleFromContext(ctx)}, true
}

// WithActor injects the acting employee into the context.
func WithActor(ctx context.Context, actor policy.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxEmployeeID, actor.EmployeeID)
	ctx = context.WithValue(ctx, ctxEmployeeName, actor.Name)
	return context.WithValue(ctx, ctxRole, actor.Role)
}
