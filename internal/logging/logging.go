package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/humanbelnik/kinomatch/core/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup builds the process logger and installs it as slog default.
func Setup(cfg config.Log) *slog.Logger {
	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
	}

	logger := slog.New(slog.NewJSONHandler(out, nil))
	slog.SetDefault(logger)
	return logger
}
