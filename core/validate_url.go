package core

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateBaseURL checks that value is an absolute http or https URL with a
// host. name is the environment variable it came from.
func ValidateBaseURL(name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalidBaseURL(name, value, "cannot be empty")
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return invalidBaseURL(name, value, "is not a valid URL")
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return invalidBaseURL(name, value, "must use http or https")
	}
	if parsed.Host == "" {
		return invalidBaseURL(name, value, "must include a host")
	}
	return nil
}

func invalidBaseURL(name, value, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf("%s %s, got %q", name, reason, value),
		Action:  fmt.Sprintf("Set %s to a URL such as https://example.com", name),
	}
}
