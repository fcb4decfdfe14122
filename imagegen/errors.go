package imagegen

import (
	"fmt"
)

// ProviderError is a failed provider call: a non-2xx HTTP status, an empty or
// malformed response, or a response without image data.
type ProviderError struct {
	// Provider is the provider name ("Google", "GeekAI").
	Provider string

	// Message is the human-readable summary, e.g. "Google API error".
	Message string

	// StatusCode is the HTTP status, or 0 when the failure is not an HTTP status.
	StatusCode int

	// Body is the response body returned with a non-2xx status.
	Body string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.StatusCode, e.Body)
	}
	return e.Message
}

// FallbackError is returned when the primary provider exhausted its attempts
// and the fallback provider failed as well. Both causes stay reachable through
// errors.Is and errors.As.
type FallbackError struct {
	Primary      error
	Fallback     error
	FallbackName string
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("Primary provider failed: %s; %s fallback failed: %s",
		errorText(e.Primary), e.FallbackName, errorText(e.Fallback))
}

func (e *FallbackError) Unwrap() []error {
	return []error{e.Primary, e.Fallback}
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
