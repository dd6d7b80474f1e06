package cli

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger on w. Verbose lowers the level from warn
// to debug, which surfaces per-load progress.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
