package logging

import (
	"fmt"
	"log"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level     string
	Format    string
	Component string
}

// New returns a standard library logger whose output is routed through zap.
// Callers keep writing key=value Printf lines; zap adds timestamps, level and
// the component field.
func New(options Options) (*log.Logger, func(), error) {
	base, err := NewZap(options)
	if err != nil {
		return nil, nil, err
	}

	stdLogger, err := zap.NewStdLogAt(base, zapcore.InfoLevel)
	if err != nil {
		_ = base.Sync()
		return nil, nil, fmt.Errorf("redirect std logger: %w", err)
	}

	return stdLogger, func() { _ = base.Sync() }, nil
}

func NewZap(options Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(options.Level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", options.Level, err)
	}

	var zapConfig zap.Config
	switch strings.ToLower(strings.TrimSpace(options.Format)) {
	case "", "json":
		zapConfig = zap.NewProductionConfig()
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unsupported log format %q", options.Format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.TimeKey = "ts"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.DisableStacktrace = true

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	if component := strings.TrimSpace(options.Component); component != "" {
		logger = logger.With(zap.String("component", component))
	}
	return logger, nil
}
