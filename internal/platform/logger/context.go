package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// loggerKey is the context key for the request-scoped logger.
var loggerKey = contextKey{}

// WithLogger returns a context carrying the given logger. Passing a
// nil logger panics.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		// ALLOW-PANIC: nil logger in context would hide bugs downstream
		panic("logger: cannot attach nil logger to context")
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from the context, if any.
func FromContext(ctx context.Context) (*slog.Logger, bool) {
	logger, ok := ctx.Value(loggerKey).(*slog.Logger)
	return logger, ok
}

// FromContextOrDefault extracts the logger from the context, falling
// back to the provided default. A nil fallback yields slog.Default.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := FromContext(ctx); ok {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
