// Package logger configures the process-wide structured logger for the
// Hudu MCP service.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a configuration string into a slog level. Unknown
// strings fall back to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Setup builds a logger with the given level and format ("text" or
// "json") and installs it as the slog default. Logs go to stderr; stdout
// belongs to the MCP stdio transport.
func Setup(level, format string) *slog.Logger {
	return SetupWithWriter(level, format, os.Stderr)
}

// SetupWithWriter is Setup with an explicit output writer, for tests.
func SetupWithWriter(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	log := slog.New(handler).With("service", "hudumcp")
	slog.SetDefault(log)
	return log
}
