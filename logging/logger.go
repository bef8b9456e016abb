package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"coursehub/config"
)

const serviceName = "coursehub"

// NewLogger creates the structured logger used by every package.
func NewLogger(cfg config.Configuration) zerolog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg config.Configuration) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp().Str("service", serviceName)
	if cfg.Env != "" {
		ctx = ctx.Str("env", cfg.Env)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return ctx.Logger().Level(level)
}
