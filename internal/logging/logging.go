// Package logging configures the process-wide structured logger. log/slog
// is the one ambient concern with no library anywhere in the retrieved
// corpus, so this package is deliberately stdlib (see DESIGN.md).
package logging

import (
	"log/slog"
	"os"
)

// New builds a text-handler slog.Logger at the given level ("debug", "info",
// "warn", "error"; unrecognized values default to info).
func New(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
