package config

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewFileWriter returns a size-rotated writer for cfg, or nil when no path is
// set. The caller closes it on shutdown.
func NewFileWriter(cfg FileConfig) io.WriteCloser {
	if cfg.Path == "" {
		return nil
	}
	d := Default().Log.File
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    positive(cfg.MaxSizeMB, d.MaxSizeMB),
		MaxAge:     positive(cfg.MaxAgeDays, d.MaxAgeDays),
		MaxBackups: positive(cfg.MaxBackups, d.MaxBackups),
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

func positive(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
