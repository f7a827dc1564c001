package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns the process logger. Level comes from AURA_LOG_LEVEL and
// defaults to info.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToUpper(os.Getenv("AURA_LOG_LEVEL")) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
