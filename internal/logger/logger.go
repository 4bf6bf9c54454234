package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/keithshino/one-on-one-supporter/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init installs the default slog logger: JSON to stdout, plus a rotated file
// when LOG_FILE is set.
func Init(cfg *config.Config) {
	level := parseLevel(cfg.LogLevel)

	writers := []io.Writer{os.Stdout}
	if cfg.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			LocalTime:  true,
		})
	}

	h := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
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
