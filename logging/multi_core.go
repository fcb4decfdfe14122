package logging

import (
	"go.uber.org/zap/zapcore"
)

// NewMultiCore creates a zapcore.Core that writes human-readable entries to
// console and, when filePath is non-empty, JSON entries to a rotating file.
// This is a molecule that composes the encoder config atoms from encoder_config.go.
//
// Parameters:
//   - level: The minimum log level for both outputs
//   - console: Destination for console output (stderr for the CLI tools)
//   - filePath: Path to the log file; empty disables file output
//   - isDev: When true, console levels are coloured
//
// Example:
//
//	core, err := NewMultiCore(zapcore.InfoLevel, zapcore.AddSync(os.Stderr), "", false)
//	logger := zap.New(core)
func NewMultiCore(level zapcore.Level, console zapcore.WriteSyncer, filePath string, isDev bool) (zapcore.Core, error) {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(NewConsoleEncoderConfig(isDev)),
		console,
		level,
	)

	if filePath == "" {
		return consoleCore, nil
	}

	fileWriter, err := NewFileWriter(filePath)
	if err != nil {
		return nil, err
	}

	return NewMultiCoreWithWriters(level, consoleCore, fileWriter), nil
}

// NewMultiCoreWithWriters tees an existing console core with a JSON file core
// over the given writer. Useful for testing or special output destinations.
func NewMultiCoreWithWriters(level zapcore.Level, consoleCore zapcore.Core, fileWriter zapcore.WriteSyncer) zapcore.Core {
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(NewEncoderConfig()),
		fileWriter,
		level,
	)

	return zapcore.NewTee(consoleCore, fileCore)
}
