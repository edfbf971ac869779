package app

import (
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
)

// NewLogger builds the run logger. Console output goes to console as text; it is
// quiet unless verbose. When debugLog is non-nil every record is also written to
// it as JSON.
func NewLogger(console io.Writer, debugLog io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
	}
	if debugLog != nil {
		handlers = append(handlers, slog.NewJSONHandler(debugLog, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slogmulti.Fanout(handlers...))
}
