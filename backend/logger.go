package backend

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the package-level structured logger.
// All bot code should use this instead of fmt.Printf.
var Logger = slog.Default()

// InitLogger initialises the slog default logger.
// level should be one of: "debug", "info", "warn", "error".
// The LOG_LEVEL environment variable overrides the config value,
// LOG_FORMAT=json switches to the JSON handler.
func InitLogger(level string) {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}

	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: l}

	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	Logger = logger
}
