// Package logging builds the shared zap logger. The TUI writes its log to a
// file so structured output never fights the alternate screen; one-shot CLI
// commands log to stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production logger at the given level. When toFile is true the
// logger appends to logPath instead of stderr.
func New(level string, toFile bool, logPath string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	if toFile {
		if logPath == "" {
			logPath = DefaultLogPath()
		}
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		cfg.OutputPaths = []string{logPath}
		cfg.ErrorOutputPaths = []string{logPath}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// DefaultLogPath is where the TUI writes when no path is configured.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "contra.log"
	}
	return filepath.Join(home, ".contra", "contra.log")
}
