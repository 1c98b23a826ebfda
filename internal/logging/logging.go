// Package logging builds the zap logger shared by the server and the CLIs.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pageza/alchemorsel-v2/recipetool/config"
)

// New returns a JSON production logger. Development and test environments
// log at debug level.
func New(env config.Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == config.Development || env == config.Test {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("env", string(env))), nil
}

// Must is New for command entry points, falling back to a no-op logger.
func Must(env config.Environment) *zap.Logger {
	logger, err := New(env)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
