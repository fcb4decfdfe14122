package imagegen

import (
	"context"
)

// Provider is the interface for image generation providers.
// The primary (Gemini) and fallback (GeekAI) providers implement it with
// different endpoints, authentication, and option encodings.
type Provider interface {
	// Name identifies the provider in logs and combined error messages.
	Name() string

	// DefaultModel is the model used when the caller passes an empty model.
	DefaultModel() string

	// Generate performs one synchronous generation and returns raw image bytes.
	// It makes exactly one attempt; retries belong to FallbackGenerator.
	Generate(ctx context.Context, prompt, model string, opts Options) ([]byte, error)
}
