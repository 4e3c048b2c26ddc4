// Package logging builds the zap loggers of the drivetrain tools and turns vehicle
// diagnostics into structured log lines.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Level is one of debug, info, warn, error
	Level string
	// Encoding is json or console
	Encoding    string
	OutputPaths []string
}

func New(options Options) (*zap.Logger, error) {
	level := zap.InfoLevel
	if options.Level != "" {
		var err error
		level, err = zapcore.ParseLevel(options.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
	}

	encoding := options.Encoding
	if encoding == "" {
		encoding = "json"
	}

	outputs := options.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}

	return logger, nil
}
