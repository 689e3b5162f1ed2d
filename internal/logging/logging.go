// Package logging builds the zap loggers used by the console and the server.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/config"
)

// New returns the logger for interactive commands. The terminal belongs to
// the TUI, so debug logs go to cfg.Path as JSON; without debug everything is discarded.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	if !cfg.Debug {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	zc.Sampling = nil
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{cfg.Path}
	zc.ErrorOutputPaths = []string{cfg.Path}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", cfg.Path, err)
	}
	return logger, nil
}

// NewConsole returns a human-readable stderr logger for the HTTP server.
func NewConsole(debug bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zc.DisableStacktrace = !debug

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
