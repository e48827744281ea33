package initializers

import (
	"log/slog"
	"os"
	"strings"
)

const serviceName = "farmers-market-api"

// NewLogger builds the JSON logger used across the service and installs it
// as the slog default.
func NewLogger(env, level string) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	logger := slog.New(h).With(
		"service", serviceName,
		"env", env,
	)

	slog.SetDefault(logger)
	return logger
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
