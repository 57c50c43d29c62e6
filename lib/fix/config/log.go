package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BuildLogger constructs the zap.Logger every package in this module
// logs through, per LogConfig's level/format knobs (SPEC_FULL.md §6),
// grounded on
// _examples/Aidin1998-finalex/services/marketfeeds/common/logger.New's
// production-vs-development split.
func (c LogConfig) BuildLogger() (*zap.Logger, error) {
	var zc zap.Config
	switch c.Format {
	case "", "console":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "json":
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("config: log.format must be \"json\" or \"console\", got %q", c.Format)
	}

	level, err := zapcore.ParseLevel(levelOrDefault(c.Level))
	if err != nil {
		return nil, fmt.Errorf("config: log.level: %w", err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
