package atomstore

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with atomstore-specific context.
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

// WithTitle adds the group title to the logger.
func (l *Logger) WithTitle(title string) *Logger {
	return &Logger{
		Logger: l.Logger.With("title", title),
	}
}

// LogLabelMismatch logs the best-effort outcome of a coordinate-set label
// assignment whose length did not match the number of sets.
func (l *Logger) LogLabelMismatch(got, want int) {
	l.Warn("coordinate set label list length does not match number of coordinate sets; labels unchanged",
		"labels", got,
		"coordsets", want,
	)
}

// LogCoordsetMismatch logs a merge of two groups with different numbers of
// coordinate sets.
func (l *Logger) LogCoordsetMismatch(a, b string, na, nb int) {
	l.Warn("groups do not have the same number of coordinate sets; merging first set of each",
		"a", a,
		"b", b,
		"a_coordsets", na,
		"b_coordsets", nb,
	)
}
