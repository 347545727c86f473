package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileLogger appends structured JSON lines to a log file.
// Verbose maps to zap's debug level and is dropped unless verbose is set.
type FileLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// NewFileLogger opens (or creates) path and returns a logger writing to it.
// Parent directories are created as needed.
func NewFileLogger(path string, verbose bool) (*FileLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  zapcore.OmitKey,
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build file logger: %w", err)
	}
	return newFileLogger(logger), nil
}

func newFileLogger(logger *zap.Logger) *FileLogger {
	return &FileLogger{logger: logger, sugar: logger.Sugar()}
}

// With returns a child logger that stamps every line with the given fields,
// e.g. With("table", "naics", "edition", "2022-01-01").
func (l *FileLogger) With(keysAndValues ...interface{}) *FileLogger {
	return &FileLogger{logger: l.logger, sugar: l.sugar.With(keysAndValues...)}
}

func (l *FileLogger) Verbose(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *FileLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *FileLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Close flushes buffered entries.
func (l *FileLogger) Close() error {
	if err := l.sugar.Sync(); err != nil {
		return fmt.Errorf("failed to flush log file: %w", err)
	}
	return nil
}
