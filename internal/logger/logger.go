package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config logging
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // text | json
	File       string // kosong = stdout saja
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds a logrus logger writing to stdout and, when File is set,
// to a lumberjack-rotated file. Unknown levels fall back to info.
func New(cfg Config) *logrus.Logger {
	return newWithStdout(cfg, os.Stdout)
}

func newWithStdout(cfg Config, stdout io.Writer) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	out := stdout
	if cfg.File != "" {
		out = io.MultiWriter(stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}
	log.SetOutput(out)
	return log
}
