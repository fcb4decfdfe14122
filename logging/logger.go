package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures NewLogger.
type Options struct {
	// Level is the minimum level for every output.
	Level zapcore.Level

	// Development switches the console to coloured output at debug level.
	Development bool

	// FilePath enables a rotating JSON log file in addition to the console.
	FilePath string

	// Console receives human-readable entries. Defaults to os.Stderr so that
	// stdout stays reserved for command results.
	Console io.Writer
}

// Logger is the main logging organism that wraps zap.Logger and provides
// structured logging with automatic sensitive data redaction.
//
// This organism composes:
//   - FileWriter molecule (optional log file rotation via lumberjack)
//   - MultiCore molecule (tee console + file)
//   - SensitiveFilter atom (API key redaction)
//
// Example:
//
//	logger, err := NewLogger(Options{Level: InfoLevel})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Warn("primary provider failed", zap.Int("attempt", 1))
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger
}

// NewLogger creates a Logger writing to the console and, when FilePath is
// set, to a rotating log file (100MB max, 5 backups, 30 days).
func NewLogger(opts Options) (*Logger, error) {
	level := opts.Level
	if opts.Development && level > DebugLevel {
		level = DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	core, err := NewMultiCore(level, zapcore.AddSync(console), opts.FilePath, opts.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to create log core: %w", err)
	}

	var zapOpts []zap.Option
	if opts.Development {
		zapOpts = append(zapOpts, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	return NewLoggerFromCore(core, zapOpts...), nil
}

// NewLoggerFromCore wraps an existing zapcore.Core, e.g. an observer core in tests.
func NewLoggerFromCore(core zapcore.Core, opts ...zap.Option) *Logger {
	zapLogger := zap.New(core, opts...)
	return &Logger{
		zap:   zapLogger,
		sugar: zapLogger.Sugar(),
	}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return NewLoggerFromCore(zapcore.NewNopCore())
}

// Sync flushes any buffered log entries.
// Applications should call Sync before exiting to ensure all logs are written.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

// Debug logs a message at DebugLevel with optional structured fields.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, l.redactFields(fields)...)
}

// Info logs a message at InfoLevel with optional structured fields.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, l.redactFields(fields)...)
}

// Warn logs a message at WarnLevel with optional structured fields.
//
// Example:
//
//	logger.Warn("output extension corrected",
//	    zap.String("requested", ".jpg"),
//	    zap.String("detected", ".png"))
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, l.redactFields(fields)...)
}

// Error logs a message at ErrorLevel with optional structured fields.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, l.redactFields(fields)...)
}

// Warnf logs a formatted message at WarnLevel.
func (l *Logger) Warnf(template string, args ...interface{}) {
	l.sugar.Warnf(template, args...)
}

// With creates a child logger with additional fields that will be included
// in all log entries from the child.
//
// Example:
//
//	taskLogger := logger.With(zap.Int("task", 3), zap.String("run_id", runID))
func (l *Logger) With(fields ...zap.Field) *Logger {
	newZap := l.zap.With(l.redactFields(fields)...)
	return &Logger{
		zap:   newZap,
		sugar: newZap.Sugar(),
	}
}

// Named adds a sub-logger name. Logger names appear in log output and
// help identify the source of log entries.
func (l *Logger) Named(name string) *Logger {
	newZap := l.zap.Named(name)
	return &Logger{
		zap:   newZap,
		sugar: newZap.Sugar(),
	}
}

// redactFields filters sensitive data from zap.Field values.
// This is called before every log operation to ensure no sensitive data leaks.
func (l *Logger) redactFields(fields []zap.Field) []zap.Field {
	if len(fields) == 0 {
		return fields
	}

	result := make([]zap.Field, len(fields))
	for i, field := range fields {
		result[i] = redactField(field)
	}
	return result
}

// redactField redacts a single zap.Field if it contains sensitive data.
func redactField(field zap.Field) zap.Field {
	if IsSensitiveField(field.Key) {
		return zap.String(field.Key, RedactedPlaceholder)
	}

	switch field.Type {
	case zapcore.StringType:
		redacted := RedactSensitiveData(field.String)
		if redacted != field.String {
			return zap.String(field.Key, redacted)
		}
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok && err != nil {
			msg := err.Error()
			if redacted := RedactSensitiveData(msg); redacted != msg {
				return zap.String(field.Key, redacted)
			}
		}
	}

	return field
}
