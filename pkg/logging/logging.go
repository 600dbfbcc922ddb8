// Package logging constructs the process logger: an ectologger fronting a
// zap sink so every component logs through the same structured pipeline.
package logging

import (
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger. In non-production environments the zap
// development encoder is used for readable console output. Entries below
// the configured level are dropped at the zap core. The returned cleanup
// flushes buffered entries and should run on shutdown.
func New(serviceName, environment, level string) (ectologger.Logger, func(), error) {
	cfg := zap.NewProductionConfig()
	if environment != "production" {
		cfg = zap.NewDevelopmentConfig()
	}
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	zl, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	zl = zl.With(zap.String("service", serviceName))

	log := zapadapter.NewZapEctoLogger(zl, nil)

	cleanup := func() {
		_ = zl.Sync()
	}
	return log, cleanup, nil
}
