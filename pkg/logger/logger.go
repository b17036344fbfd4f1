package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var log *zap.Logger

// Initialize builds the process logger. Format is "json" (default) or
// "console" for local runs.
func Initialize(logLevel, format string) error {
	zLevel, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	encodeLevel := zapcore.LowercaseLevelEncoder
	switch format {
	case "", FormatJSON:
		format = FormatJSON
	case FormatConsole:
		encodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return fmt.Errorf("unsupported log format %q", format)
	}

	config := zap.Config{
		Encoding:         format,
		Level:            zap.NewAtomicLevelAt(zLevel),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    map[string]interface{}{"service": "waitlist"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "message",
			LevelKey:     "level",
			TimeKey:      "time",
			NameKey:      "component",
			CallerKey:    "caller",
			EncodeLevel:  encodeLevel,
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			EncodeCaller: zapcore.ShortCallerEncoder,
			EncodeName:   zapcore.FullNameEncoder,
		},
	}

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	log = built

	return nil
}

// Logger returns the process logger. Before Initialize is called (tests,
// tooling) it returns a no-op logger.
func Logger() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Named tags every entry with the component that wrote it.
func Named(component string) *zap.Logger {
	return Logger().Named(component)
}

func Sync() error {
	if log == nil {
		return nil
	}
	return log.Sync()
}
