// Package ctxutil carries request-scoped identity through the call chain.
// The API layer authenticates the caller and stores the acting user here;
// services read it for attribution (created_by/updated_by, audit records).
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type userIDKey struct{}
type requestIDKey struct{}

// WithUserID stores the acting user's ID in the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFromCtx extracts the acting user's ID from the context.
// Returns uuid.Nil and false if absent, nil, or of the wrong type.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromCtx extracts the request ID; empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
