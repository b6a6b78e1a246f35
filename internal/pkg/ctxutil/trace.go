package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceKey struct{}
type userKey struct{}

// TraceData carries the request correlation identifiers through the call tree.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceKey{}).(*TraceData)
	return td
}

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(Default(ctx), userKey{}, userID)
}

// GetUserID returns uuid.Nil when no authenticated user is attached.
func GetUserID(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	id, _ := ctx.Value(userKey{}).(uuid.UUID)
	return id
}
