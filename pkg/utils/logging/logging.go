package logging

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/m-mizutani/clog"
)

type ctxLoggerKey struct{}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	handler := clog.New(
		clog.WithColor(true),
		clog.WithLevel(slog.LevelInfo),
	)
	defaultLogger.Store(slog.New(handler))
}

// Default returns the process-wide default logger
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide default logger
func SetDefault(logger *slog.Logger) {
	defaultLogger.Store(logger)
}

// With embeds the logger into the context
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From extracts the logger from the context, falling back to the default logger
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}
