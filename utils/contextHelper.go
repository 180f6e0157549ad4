package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const correlationIdKey contextKey = "correlationId"

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, correlationIdKey, correlationId)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(correlationIdKey).(string)
	return v, ok
}

// CorrelationIdFromContextOrNew reads the request correlation id, minting a
// fresh one for callers (batch jobs, tests) that never set it.
func CorrelationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}
