package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type for request-scoped values set by this package.
type ContextKey string

// TraceIDKey is the key for the trace ID in the request context.
const TraceIDKey ContextKey = "traceID"

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, NewTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// NewTraceID returns a 32 character hex trace ID.
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
