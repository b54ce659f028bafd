// Package logging provides structured logging for the horsetab daemon.
//
// This package wraps go.uber.org/zap for leveled, structured logging and
// optionally rotates a log file through gopkg.in/natefinch/lumberjack.v2.
// It integrates with context.Context for request/dispatch-scoped logging.
package logging

import (
	"context"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ctxKey is the context key for the logger.
type ctxKey struct{}

var (
	// defaultLogger is the global logger instance.
	defaultLogger *zap.SugaredLogger
	// loggerMu protects defaultLogger.
	loggerMu sync.RWMutex
)

func init() {
	// Initialize with a default logger (console encoding to stderr, info level).
	defaultLogger = NewLogger(Config{Level: zapcore.InfoLevel})
}

// Config holds the logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level zapcore.Level
	// Format is the output format ("text"/"console" or "json").
	Format string
	// Output is an additional log output destination (e.g. stderr). When
	// nil, os.Stderr is used.
	Output io.Writer
	// File, when non-empty, rotates logs into this path via lumberjack
	// in addition to Output.
	File string
}

// NewLogger creates a new structured logger with the given configuration.
func NewLogger(cfg Config) *zap.SugaredLogger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	writers := []zapcore.WriteSyncer{zapcore.AddSync(cfg.Output)}
	if cfg.File != "" {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), cfg.Level)
	return zap.New(core, zap.AddCaller()).Sugar()
}

// SetDefault sets the default global logger.
func SetDefault(logger *zap.SugaredLogger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = logger
}

// Default returns the default global logger.
func Default() *zap.SugaredLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// WithRuleID returns a logger tagged with an installed command's rule ID.
func WithRuleID(logger *zap.SugaredLogger, id int) *zap.SugaredLogger {
	return logger.With("rule_id", id)
}

// WithOperation returns a logger tagged with the operation it's logging for.
func WithOperation(logger *zap.SugaredLogger, op string) *zap.SugaredLogger {
	return logger.With("operation", op)
}

// WithPID returns a logger tagged with a child process ID.
func WithPID(logger *zap.SugaredLogger, pid int) *zap.SugaredLogger {
	return logger.With("pid", pid)
}

// WithSubscriber returns a logger tagged with a bus subscriber's peer port
// and trace id.
func WithSubscriber(logger *zap.SugaredLogger, peerPort int, traceID string) *zap.SugaredLogger {
	return logger.With("peer_port", peerPort, "trace_id", traceID)
}

// ContextWithLogger returns a new context with the logger attached.
func ContextWithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext retrieves the logger from context.
// If no logger is found, returns the default logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
		return logger
	}
	return Default()
}

// ParseLevel parses a log level string into a zapcore.Level.
// Valid values: "debug", "info", "warn", "error". Returns InfoLevel for
// invalid values.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Helper functions for common log patterns, mirroring the zap.SugaredLogger
// API against the package-level default logger.

// Info logs an info message using the default logger.
func Info(args ...any) { Default().Info(args...) }

// Infof logs a formatted info message using the default logger.
func Infof(template string, args ...any) { Default().Infof(template, args...) }

// Warn logs a warning message using the default logger.
func Warn(args ...any) { Default().Warn(args...) }

// Warnf logs a formatted warning message using the default logger.
func Warnf(template string, args ...any) { Default().Warnf(template, args...) }

// Error logs an error message using the default logger.
func Error(args ...any) { Default().Error(args...) }

// Errorf logs a formatted error message using the default logger.
func Errorf(template string, args ...any) { Default().Errorf(template, args...) }

// Debug logs a debug message using the default logger.
func Debug(args ...any) { Default().Debug(args...) }
