// Package logger builds the application's slog logger.
package logger

import (
	"io"
	"log"
	"log/slog"
)

// New returns a JSON logger for production and a text logger otherwise.
func New(w io.Writer, level slog.Level, production bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if production {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Std adapts l for APIs that want a *log.Logger, such as the chi request logger.
func Std(l *slog.Logger) *log.Logger {
	return slog.NewLogLogger(l.Handler(), slog.LevelInfo)
}

// Discard is a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
