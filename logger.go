package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog.Logger writing to stdout. Debug level also
// records the source location.
func NewLogger(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug})
	return slog.New(h)
}
