// Package logging wires zap to a rotating log file. Stdout belongs to
// the canvas while the browser runs, so diagnostics never go there.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = zap.NewNop()

// L returns the process logger. Before Setup it is a nop.
func L() *zap.Logger {
	return logger
}

// DefaultPath returns the log file location under the user cache dir.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "toad.log")
	}
	return filepath.Join(dir, "toad", "toad.log")
}

// Setup routes the process logger to a rotating file. debug widens the
// level to Debug.
func Setup(path string, debug bool) *zap.Logger {
	if path == "" {
		path = DefaultPath()
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     14, // days
	})
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, level)
	logger = zap.New(core)
	return logger
}

// Sync flushes buffered log entries; safe to call at shutdown.
func Sync() {
	_ = logger.Sync()
}
