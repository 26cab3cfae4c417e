// Package logging builds the zap loggers used by the bumpver CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the CLI logger.
type Options struct {
	// Verbose enables debug output.
	Verbose bool
	// JSON switches from console to JSON encoding.
	JSON bool
	// OutputPaths overrides the sinks. Defaults to stderr so stdout stays
	// reserved for command output.
	OutputPaths []string
}

// New returns a production-configured logger. Without Verbose only warnings
// and errors are written; routine progress is reported by the commands
// themselves.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if opts.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if !opts.JSON {
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	config.DisableStacktrace = !opts.Verbose
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if len(opts.OutputPaths) > 0 {
		config.OutputPaths = opts.OutputPaths
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Printf adapts logger to the printf-style debug hooks used by internal/git.
func Printf(logger *zap.Logger) func(format string, args ...any) {
	sugar := logger.WithOptions(zap.AddCallerSkip(1)).Sugar()
	return func(format string, args ...any) {
		sugar.Debugf(format, args...)
	}
}
