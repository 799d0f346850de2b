// Package observability builds the process logger. Components depend on the
// narrow telemetry.Logger seam; this package supplies the zap-backed
// implementation behind it.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bot-brawl/server/internal/telemetry"
)

// Logger wraps a zap logger behind the telemetry.Logger interface.
type Logger struct {
	sugar *zap.SugaredLogger
}

var _ telemetry.Logger = (*Logger)(nil)

// New constructs a logger from config. Unknown levels and encodings are
// rejected rather than silently defaulted.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(valueOr(cfg.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("observability: parse level %q: %w", cfg.Level, err)
	}

	encoding := valueOr(cfg.Encoding, "json")
	if encoding != "json" && encoding != "console" {
		return nil, fmt.Errorf("observability: unknown encoding %q", cfg.Encoding)
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	base, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("observability: build logger: %w", err)
	}
	return &Logger{sugar: base.Sugar()}, nil
}

// Printf implements telemetry.Logger at info level.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// Sync flushes buffered log entries; call on shutdown.
func (l *Logger) Sync() error {
	if l == nil || l.sugar == nil {
		return nil
	}
	return l.sugar.Sync()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
