package usercontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID stores the authenticated user's id on the context.
func WithUserID(ctx context.Context, userID snowflake.ID) context.Context {
	if userID == 0 {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user's id, if present.
func UserIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	value, ok := ctx.Value(userIDKey).(snowflake.ID)
	if !ok || value == 0 {
		return 0, false
	}
	return value, true
}
