// Package logging builds the zap logger shared by all batch-downloader
// packages.
package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	// Debug starts the logger at debug level instead of warn.
	Debug bool

	// File, when set, receives JSON-encoded logs in addition to stderr.
	File string
}

// Logger wraps a zap.Logger whose level can be raised while running.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
	RunID string
}

// New builds a console logger on stderr tagged with a fresh run id.
func New(opts Options) (*Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if opts.Debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	config := zap.NewProductionConfig()
	config.Level = level
	config.Encoding = "console"
	config.Sampling = nil
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	base, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if opts.File != "" {
		fileConfig := zap.NewProductionConfig()
		fileConfig.Level = level
		fileConfig.Sampling = nil
		fileConfig.OutputPaths = []string{opts.File}
		fileLogger, err := fileConfig.Build()
		if err != nil {
			_ = base.Sync()
			return nil, fmt.Errorf("failed to open log file %s: %w", opts.File, err)
		}
		base = zap.New(zapcore.NewTee(base.Core(), fileLogger.Core()))
	}

	runID := uuid.NewString()
	return &Logger{
		Logger: base.With(zap.String("run_id", runID)),
		level:  level,
		RunID:  runID,
	}, nil
}

// SetDebug switches the logger to debug level for the rest of the run.
func (l *Logger) SetDebug() {
	l.level.SetLevel(zapcore.DebugLevel)
}

// DebugEnabled reports whether debug output is currently on.
func (l *Logger) DebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}
