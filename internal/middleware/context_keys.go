package middleware

import (
	"context"
	"log/slog"
)

// contextKey is a private type for context keys to prevent collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	clientIDKey  = contextKey("clientID")
)

// GetLoggerFromCtx retrieves the request-scoped logger from the context.
// Falls back to the default logger when none is present (e.g. in tests).
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// GetClientIDFromCtx retrieves the authenticated client ID from the context.
// It returns the ID and a boolean indicating whether it was found.
func GetClientIDFromCtx(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(clientIDKey).(string)
	return clientID, ok
}
