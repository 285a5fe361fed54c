// Package logger provides a configured logger for the application.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// L is the global logger. It defaults to text output at info level
// until Init is called with the loaded configuration.
var L = New("info", "text")

// Init replaces the global logger with one built from the configuration.
func Init(level, format string) {
	L = New(level, format)
}

// New creates a new logger based on the configuration.
func New(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
