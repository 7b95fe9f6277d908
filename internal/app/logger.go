package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ravenhall/clanchest-backend/internal/config"
)

// NewLogger creates a *slog.Logger from LogConfig and installs it as the
// default logger.
//
// Format "json" produces structured JSON output (production); anything else
// falls back to human-readable text with source locations (development).
// Level is one of debug, info, warn, error (case-insensitive).
func NewLogger(cfg config.LogConfig) *slog.Logger {
	return newLoggerTo(os.Stderr, cfg)
}

func newLoggerTo(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		opts.AddSource = true
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
