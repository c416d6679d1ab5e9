// Package logging builds the diagnostic zap logger. User-facing output goes
// through internal/output instead.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yuuuuuyu/miniapp-template/internal/git"
)

// DebugEnabled reports whether debug logging was requested via DEBUG.
func DebugEnabled() bool {
	return os.Getenv("DEBUG") != ""
}

// Level returns the log level for the given verbosity.
func Level(verbose bool) zapcore.Level {
	if verbose || DebugEnabled() {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

// Config returns a console logger config writing to stderr.
func Config(verbose bool) zap.Config {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.Level = zap.NewAtomicLevelAt(Level(verbose))
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableStacktrace = !verbose
	config.Sampling = nil
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config
}

// New builds the logger and routes git debug messages through it.
func New(verbose bool) (*zap.Logger, error) {
	logger, err := Config(verbose).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	BridgeGit(logger)
	return logger, nil
}

// BridgeGit sends internal/git debug output to logger.
func BridgeGit(logger *zap.Logger) {
	sugar := logger.Named("git").Sugar()
	git.SetDebugLogger(sugar.Debugf)
}
