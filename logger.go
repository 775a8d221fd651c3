package flax

import (
	"context"
	"log/slog"
	"os"

	"github.com/borgorg/flax/state"
)

// Logger wraps slog.Logger with flax-specific context.
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
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPath adds a state path field to the logger.
func (l *Logger) WithPath(p state.Path) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", p.String()),
	}
}

// WithGroupName adds a checkpoint group name field to the logger.
func (l *Logger) WithGroupName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("group", name),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogSave logs a checkpoint save operation.
func (l *Logger) LogSave(ctx context.Context, id uint64, groups int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "checkpoint save failed",
			"id", id,
			"groups", groups,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "checkpoint saved",
			"id", id,
			"groups", groups,
		)
	}
}

// LogLoad logs a checkpoint load operation.
func (l *Logger) LogLoad(ctx context.Context, id uint64, groups int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "checkpoint load failed",
			"id", id,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "checkpoint loaded",
			"id", id,
			"groups", groups,
		)
	}
}
