package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder is the string used to replace sensitive data
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns contains compiled regex patterns for detecting sensitive data
// inside free-form strings such as provider error bodies.
var sensitivePatterns = []*regexp.Regexp{
	// OpenAI-style keys (GeekAI, lnapi)
	regexp.MustCompile(`(?i)(sk-[a-zA-Z0-9_-]{20,})`),
	// Google API keys
	regexp.MustCompile(`(?i)(AIza[a-zA-Z0-9_-]{35})`),
	// Bearer tokens
	regexp.MustCompile(`(?i)(bearer\s+[a-zA-Z0-9._~+/=-]{20,})`),
	// Gemini key header
	regexp.MustCompile(`(?i)(x-goog-api-key\s*[:=]\s*[^\s,;"']+)`),
	// api_key= or api_key:
	regexp.MustCompile(`(?i)(api_key\s*[:=]\s*[^\s,;]{8,})`),
	// apikey= or apikey:
	regexp.MustCompile(`(?i)(apikey\s*[:=]\s*[^\s,;]{8,})`),
	// token= or token:
	regexp.MustCompile(`(?i)(token\s*[:=]\s*[^\s,;]{8,})`),
	// secret= or secret:
	regexp.MustCompile(`(?i)(secret\s*[:=]\s*[^\s,;]{8,})`),
}

// sensitiveFieldNames are field-name fragments that mark a whole value as sensitive
var sensitiveFieldNames = []string{
	"LNAPI_KEY",
	"GEEKAI_API_KEY",
	"TIKHUB_API_KEY",
	"API_KEY",
	"APIKEY",
	"AUTHORIZATION",
	"SECRET",
	"TOKEN",
	"PASSWORD",
}

// RedactSensitiveData scans a string value and redacts any detected sensitive data.
// This is a pure function - it takes a string and returns a sanitized string.
//
// Example:
//
//	input := "GeekAI API error (401): invalid key sk-abc123def456ghi789jkl0"
//	output := RedactSensitiveData(input)
//	// output: "GeekAI API error (401): invalid key [REDACTED]"
func RedactSensitiveData(value string) string {
	if value == "" {
		return value
	}

	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// IsSensitiveField returns true if the field name indicates sensitive data.
// This is a pure function that only checks the field name, not the value.
//
// Example:
//
//	IsSensitiveField("geekai_api_key")  // true
//	IsSensitiveField("output_path")     // false
func IsSensitiveField(fieldName string) bool {
	upperName := strings.ToUpper(fieldName)

	for _, name := range sensitiveFieldNames {
		if strings.Contains(upperName, name) {
			return true
		}
	}
	return false
}
