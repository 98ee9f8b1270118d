package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextUserKey     ctxKey = "userID"
	ContextBusinessKey ctxKey = "businessID"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if userID, ok := ctx.Value(ContextUserKey).(string); ok {
		return userID
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

// BusinessIDFromContext returns the tenant of the authenticated caller.
func BusinessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if businessID, ok := ctx.Value(ContextBusinessKey).(string); ok {
		return businessID
	}
	return ""
}

func ContextWithBusinessID(ctx context.Context, businessID string) context.Context {
	return context.WithValue(ctx, ContextBusinessKey, businessID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
