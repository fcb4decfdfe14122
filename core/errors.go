package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration or usage error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeMissingAuth     = "MISSING_AUTH"
	ErrCodeMissingConfig   = "MISSING_CONFIG"
	ErrCodeInvalidConfig   = "INVALID_CONFIG"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
)

// ErrMissingAuth returns an error for a missing API key. The message is kept
// short because it is embedded in provider failure summaries.
func ErrMissingAuth(envVar string, suffix string) *ConfigError {
	msg := fmt.Sprintf("%s is required", envVar)
	if suffix != "" {
		msg += " " + suffix
	}
	return &ConfigError{
		Code:    ErrCodeMissingAuth,
		Message: msg,
	}
}

// ErrMissingConfig returns an error for missing required configuration
func ErrMissingConfig(what string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("%s is required", what),
	}
}

// ErrInvalidArgument returns a usage error for a command-line argument.
func ErrInvalidArgument(format string, args ...interface{}) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsConfigError checks if an error is (or wraps) a ConfigError and returns it if so
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
