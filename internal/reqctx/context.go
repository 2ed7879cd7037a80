package reqctx

import (
	"context"
	"errors"
)

type contextKey string

const (
	requestIDKey contextKey = "requestID"
	syncRunIDKey contextKey = "syncRunID"
)

// ErrNoRequestIDInContext is returned when no request ID is found in context
var ErrNoRequestIDInContext = errors.New("no request ID found in context")

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from the context
func RequestIDFromContext(ctx context.Context) (string, error) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "", ErrNoRequestIDInContext
	}
	return requestID, nil
}

// WithSyncRunID tags the context with the identifier of the reconciliation
// cycle currently executing, so repository logs can be correlated to a run.
func WithSyncRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, syncRunIDKey, runID)
}

// SyncRunIDFromContext extracts the sync run ID from the context, if present.
func SyncRunIDFromContext(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(syncRunIDKey).(string)
	return runID, ok && runID != ""
}
