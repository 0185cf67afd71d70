// Package logging provides the shared slog setup for beetle services.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup initializes logging with the given level and format, writing to
// stderr. Valid levels: debug, info, warn, error. Valid formats: json,
// text. The configured logger becomes the slog default.
func Setup(level, format string) *slog.Logger {
	return SetupWriter(level, format, os.Stderr)
}

// SetupWriter initializes logging with the given level, format, and
// writer.
func SetupWriter(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
