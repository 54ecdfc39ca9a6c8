package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/lmittmann/tint"
)

func newLogger(w io.Writer, cfg LogConfig) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		NoColor: cfg.NoColor,
		Level:   parseLevel(cfg.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
