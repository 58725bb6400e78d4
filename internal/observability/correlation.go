package observability

import (
	"context"

	"github.com/google/uuid"
)

// CorrelationHeader is the HTTP header carrying a caller-supplied
// correlation id. Lookup is case-insensitive.
const CorrelationHeader = "X-Correlation-Id"

// Context key type to avoid collisions
type correlationKey struct{}

// NewCorrelationID generates a fresh correlation id: a random 128-bit value
// rendered as a UUID-formatted string.
func NewCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID binds a correlation id to the context. The id lives
// exactly as long as the derived context, so two concurrent requests can
// never observe each other's id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFromContext retrieves the correlation id from context.
// Returns the empty string when none is bound.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}

// WithoutCorrelationID shadows any inherited correlation id with absent.
// Use when handing a request-derived context to pooled or long-lived work
// that must not inherit the request's id.
func WithoutCorrelationID(ctx context.Context) context.Context {
	return context.WithValue(ctx, correlationKey{}, "")
}
