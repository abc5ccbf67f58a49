package main

import (
	"io"
	"log/slog"
	"strings"
)

// logLevel is shared by the default handler so a config reload can change it.
var logLevel = new(slog.LevelVar)

// setupLogging installs a text handler on w as the default slog logger.
func setupLogging(w io.Writer, level string) {
	logLevel.Set(parseLogLevel(level))
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})))
}

// parseLogLevel maps a level name to a slog.Level. Unknown names fall back to warn,
// which keeps diagnostics out of normal output.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
