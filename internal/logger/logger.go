// Package logger provides the JSON-structured logger used by the pipeline
// and the CLI.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Default logs to stderr at Info.
func Default() *slog.Logger {
	return New(os.Stderr, slog.LevelInfo)
}
