package cli

import (
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileName = "noteboard.log"

// newLogger writes structured logs to a file under the store root so the
// rendered board stays clean on stdout. Logging must never break a run: any
// setup failure falls back to a nop logger.
func newLogger(root, level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{filepath.Join(root, logFileName)}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
