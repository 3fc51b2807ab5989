// Package logging provides structured logging with zap.
//
// pdi is a short-lived CLI, so logs go to stderr with a console encoder
// and default to warn — `PDI_DEBUG=1` or `PDI_LOG=debug` turns on the
// verbose output used when diagnosing fetch/transport problems.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.Logger

// Init builds the global logger from the environment.
func Init() {
	level := zapcore.WarnLevel
	if v := os.Getenv("PDI_LOG"); v != "" {
		_ = level.UnmarshalText([]byte(v))
	}
	if os.Getenv("PDI_DEBUG") == "1" {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = "" // timestamps add no value for one-shot CLI runs
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)
	globalLogger = zap.New(core)
}

func logger() *zap.Logger {
	if globalLogger == nil {
		Init()
	}
	return globalLogger
}

// Sync flushes any buffered log entries.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	logger().Debug(msg, fields...)
}
