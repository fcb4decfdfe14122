package logging

import (
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
// These constants define the JSON keys used in log file output.
const (
	FieldTimestamp  = "timestamp"
	FieldLevel      = "level"
	FieldSource     = "source"
	FieldMessage    = "message"
	FieldStacktrace = "stacktrace"
	FieldCaller     = "caller"
)

// NewEncoderConfig returns a zapcore.EncoderConfig with standardized field names
// for JSON log files: ISO8601 timestamps, lowercase levels, short caller paths.
//
// This is a pure function that returns a consistent configuration.
func NewEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       FieldTimestamp,
		LevelKey:      FieldLevel,
		NameKey:       FieldSource,
		CallerKey:     FieldCaller,
		MessageKey:    FieldMessage,
		StacktraceKey: FieldStacktrace,
		LineEnding:    zapcore.DefaultLineEnding,

		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// NewConsoleEncoderConfig returns a zapcore.EncoderConfig for the stderr console.
// Timestamps are omitted: the console carries progress messages for a person
// watching the command, and the optional log file keeps the full record.
//
// This is a pure function with no side effects.
func NewConsoleEncoderConfig(colored bool) zapcore.EncoderConfig {
	levelEncoder := zapcore.CapitalLevelEncoder
	if colored {
		levelEncoder = zapcore.CapitalColorLevelEncoder
	}

	return zapcore.EncoderConfig{
		LevelKey:         FieldLevel,
		NameKey:          FieldSource,
		CallerKey:        FieldCaller,
		MessageKey:       FieldMessage,
		StacktraceKey:    FieldStacktrace,
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",

		EncodeLevel:    levelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}
