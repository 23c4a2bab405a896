// Package logger builds the zap loggers used across the matcher.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structured field keys shared by components
const (
	FieldComponent  = "component"
	FieldIdentifier = "identifier"
	FieldProvider   = "embedding_provider"
	FieldModel      = "embedding_model"
)

// New builds a logger writing to stderr so that command output on stdout stays machine readable.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	return cfg.Build()
}

// Component returns a child logger tagged with the component name.
// A nil logger yields a no-op logger.
func Component(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.With(zap.String(FieldComponent, name))
}

// EmbeddingFields describes the configured embedding provider. Empty values are omitted.
func EmbeddingFields(provider, model string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if provider != "" {
		fields = append(fields, zap.String(FieldProvider, provider))
	}
	if model != "" {
		fields = append(fields, zap.String(FieldModel, model))
	}
	return fields
}
