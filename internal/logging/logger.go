// Package logging builds the zap loggers shared by both runtime variants.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every log line.
const ServiceName = "gplay-api"

// New builds a zap.Logger configured for development or production.
// Production output is JSON so edge platforms can index it.
func New(development bool) (*zap.Logger, error) {
	logger, err := newConfig(development).Build()
	if err != nil {
		return nil, fmt.Errorf("build logger (development=%t): %w", development, err)
	}
	return logger, nil
}

func newConfig(development bool) zap.Config {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.DisableStacktrace = true
		cfg.Sampling = nil
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.InitialFields = map[string]any{"service": ServiceName}
	return cfg
}

// MustNew is New for package init paths where there is no caller to report to.
// It falls back to a no-op logger rather than panicking.
func MustNew(development bool) *zap.Logger {
	logger, err := New(development)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
