// Package logging carries request-scoped slog loggers through context.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type loggerContextKey struct{}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger stores logger in the context. The request logger middleware
// uses this so downstream code picks up the request id attributes.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = discard
	}
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// FromContext returns the context's logger, then fallback, then a logger
// that drops everything. It never returns nil.
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	if fallback != nil {
		return fallback
	}
	return discard
}
