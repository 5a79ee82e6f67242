package middleware

import (
	"context"

	"github.com/artorders/artorders-backend/pkg/enums"
	"github.com/artorders/artorders-backend/pkg/visibility"
	"github.com/google/uuid"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
	ctxJTI    contextKey = "access_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// AccessIDFromContext returns the session id (jti) of the presented token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxJTI).(string); ok {
		return v
	}
	return ""
}

// ViewerFromContext rebuilds the authenticated viewer placed by Auth. The
// zero Viewer means the request is anonymous.
func ViewerFromContext(ctx context.Context) visibility.Viewer {
	id, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return visibility.Viewer{}
	}
	return visibility.Viewer{
		UserID: id,
		Role:   enums.Role(RoleFromContext(ctx)),
	}
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}
