package cli

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	formatConsole = "console"
	formatJSON    = "json"
)

// newLogger builds a zap backed logr.Logger writing to stderr; sync flushes buffered entries.
// The debug level enables logr V(1) messages.
func newLogger(level, format string) (logger logr.Logger, sync func(), err error) {
	var zapLevel zapcore.Level
	if err = zapLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return logr.Discard(), nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	var config zap.Config
	switch strings.ToLower(format) {
	case formatConsole, "":
		config = zap.NewDevelopmentConfig()
		config.DisableStacktrace = true
	case formatJSON:
		config = zap.NewProductionConfig()
		config.Sampling = nil
	default:
		return logr.Discard(), nil, fmt.Errorf("invalid log format %q, expected %v or %v", format, formatConsole, formatJSON)
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	zapLogger, err := config.Build()
	if err != nil {
		return logr.Discard(), nil, err
	}
	return zapr.NewLogger(zapLogger), func() { _ = zapLogger.Sync() }, nil
}
