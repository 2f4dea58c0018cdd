package logger

import (
	"context"
	"log/slog"
)

// ctxKey is unexported so only this package can attach loggers to a context.
type ctxKey struct{}

// WithLogger attaches a request-scoped logger to the context. The request
// logging middleware uses this to carry per-request attributes (request id,
// method, path) down into services.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext retrieves the request-scoped logger, falling back to the
// process-wide default when the context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}
