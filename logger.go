package diffvec

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with diffvec-specific context.
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

// WithThreshold adds a distance-threshold field to the logger.
func (l *Logger) WithThreshold(threshold float64) *Logger {
	return &Logger{
		Logger: l.Logger.With("threshold", threshold),
	}
}

// WithPositions adds a scan-position count field to the logger.
func (l *Logger) WithPositions(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("positions", n),
	}
}

// LogReduce logs a unique-vector reduction.
func (l *Logger) LogReduce(ctx context.Context, positions, accepted, deleted int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "unique-vector reduction failed",
			"positions", positions,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "unique-vector reduction completed",
			"positions", positions,
			"accepted", accepted,
			"deleted", deleted,
		)
	}
}

// LogClustering logs a clustering run.
func (l *Logger) LogClustering(ctx context.Context, points, clusters int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"points", points,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "clustering completed",
			"points", points,
			"clusters", clusters,
		)
	}
}

// LogIndexation logs a g-vector indexation.
func (l *Logger) LogIndexation(ctx context.Context, positions, latticePoints int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "indexation failed",
			"positions", positions,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "indexation completed",
			"positions", positions,
			"lattice_points", latticePoints,
		)
	}
}
