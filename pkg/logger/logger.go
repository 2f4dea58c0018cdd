// Package logger configures the process-wide slog logger and provides the
// request-scoped context carriage used by the HTTP middleware.
package logger

import (
	"log/slog"
	"os"
)

// Setup installs the default logger for the given environment: JSON at info
// level in production, human-readable text at debug level everywhere else.
func Setup(env string) {
	level := slog.LevelInfo

	var handler slog.Handler
	switch env {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case "local", "dev", "development":
		level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", "env", env, "level", level.String())
}
