// Package observability builds the structured logger shared by the
// server and its tools.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kaizoquest/kaizoquest/internal/config"
)

// NewLogger builds a zap logger from the logging configuration. The
// "json" format uses zap's production config, "console" the
// development one; both stamp times as ISO 8601.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var base zap.Config
	switch cfg.Format {
	case "json":
		base = zap.NewProductionConfig()
	case "console":
		base = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	base.Level = zap.NewAtomicLevelAt(level)
	base.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := base.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
