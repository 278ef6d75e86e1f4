package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"foodgram/internal/config"
)

// New builds the process logger: text for local work, JSON otherwise.
func New(cfg *config.Config) *slog.Logger {
	return newWithWriter(os.Stdout, cfg.LogFormat, cfg.LogLevel)
}

// Init builds the logger and installs it as the slog default.
func Init(cfg *config.Config) *slog.Logger {
	l := New(cfg)
	slog.SetDefault(l)
	return l
}

func newWithWriter(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
