package logging

import (
	"log/slog"
	"os"

	"github.com/linkden/api/internal/config"
)

// Setup installs the process-wide slog logger. Unknown levels fall back
// to info rather than erroring, so a bad config value never silences logs.
func Setup(cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
