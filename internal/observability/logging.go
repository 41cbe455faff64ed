// Package observability builds the process logger and the per-scene loggers
// derived from it.
package observability

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/nancy/internal/config"
)

// presets maps a log format to the zap preset it starts from.
var presets = map[string]func() zap.Config{
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// NewLogger builds the process logger for cfg. Every entry carries fields.
//
// Precondition: cfg.Level is "debug", "info", "warn" or "error"; cfg.Format
// is "json" or "console".
// Postcondition: Returns the logger or a non-nil error naming the bad setting.
func NewLogger(cfg config.LoggingConfig, fields ...zap.Field) (*zap.Logger, error) {
	preset, ok := presets[cfg.Format]
	if !ok {
		return nil, fmt.Errorf("log format %q: want json or console", cfg.Format)
	}
	lvl, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	zc := preset()
	zc.Level = lvl
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	logger, err := zc.Build(zap.Fields(fields...))
	if err != nil {
		return nil, fmt.Errorf("building %s logger: %w", cfg.Format, err)
	}
	return logger, nil
}

// SceneLogger returns a child of base tagged with a scene id and a fresh
// load id, so every entry from one scene load can be grouped.
//
// Postcondition: Returns the child logger and the load id it carries.
func SceneLogger(base *zap.Logger, sceneID uint16) (*zap.Logger, uuid.UUID) {
	id := uuid.New()
	return base.With(zap.Uint16("scene", sceneID), zap.Stringer("load_id", id)), id
}
