package salvo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with dataset-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithDataset adds a dataset field to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{Logger: l.Logger.With("dataset", name)}
}

// LogQuery logs a filter query.
func (l *Logger) LogQuery(ctx context.Context, hit, miss Mask, matches uint64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"hit", hit.Hex(),
			"miss", miss.Hex(),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"hit", hit.Hex(),
		"miss", miss.Hex(),
		"matches", matches,
		"duration", d,
	)
}

// LogBuild logs a dataset build.
func (l *Logger) LogBuild(ctx context.Context, count uint64, size int64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed", "error", err)
		return
	}
	l.InfoContext(ctx, "build completed",
		"count", count,
		"bytes", size,
		"duration", d,
	)
}

// LogVerify logs a dataset verification.
func (l *Logger) LogVerify(ctx context.Context, count uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "verify failed", "error", err)
		return
	}
	l.InfoContext(ctx, "verify completed", "count", count)
}
