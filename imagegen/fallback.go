// Package imagegen generates images from text prompts through a primary
// Gemini-style provider with a GeekAI fallback, and writes them to disk.
//
// fallback.go implements the FallbackGenerator molecule: a bounded number of
// attempts on the primary provider, then a single attempt on the fallback.
//
// This molecule composes:
//   - Provider interface: the primary and fallback providers
//   - logging.Logger: retry and fallback warnings
package imagegen

import (
	"context"
	"fmt"

	"mediaskills/logging"

	"go.uber.org/zap"
)

// DefaultPrimaryAttempts is how many times the primary provider is tried.
const DefaultPrimaryAttempts = 2

// FallbackGenerator tries the primary provider up to Attempts times with no
// delay between attempts, then the fallback provider once with the
// fallback's own default model.
//
// Thread Safety: FallbackGenerator is safe for concurrent use when both
// providers are.
type FallbackGenerator struct {
	primary  Provider
	fallback Provider
	attempts int
	logger   *logging.Logger
}

// NewFallbackGenerator builds a FallbackGenerator. attempts below 1 means
// DefaultPrimaryAttempts.
func NewFallbackGenerator(primary, fallback Provider, attempts int, logger *logging.Logger) (*FallbackGenerator, error) {
	if primary == nil {
		return nil, fmt.Errorf("imagegen: primary provider cannot be nil")
	}
	if fallback == nil {
		return nil, fmt.Errorf("imagegen: fallback provider cannot be nil")
	}
	if attempts < 1 {
		attempts = DefaultPrimaryAttempts
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FallbackGenerator{
		primary:  primary,
		fallback: fallback,
		attempts: attempts,
		logger:   logger.Named("fallback"),
	}, nil
}

// Name returns the primary provider's name.
func (g *FallbackGenerator) Name() string { return g.primary.Name() }

// DefaultModel returns the primary provider's default model.
func (g *FallbackGenerator) DefaultModel() string { return g.primary.DefaultModel() }

// Generate returns the first successful result. model applies only to the
// primary provider. When every attempt fails the error is a *FallbackError
// carrying the last primary error and the fallback error.
func (g *FallbackGenerator) Generate(ctx context.Context, prompt, model string, opts Options) ([]byte, error) {
	var primaryErr error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		data, err := g.primary.Generate(ctx, prompt, model, opts)
		if err == nil {
			return data, nil
		}
		primaryErr = err
		g.logger.Debug("primary attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err))

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < g.attempts {
			g.logger.Warn("Banana proxy generation failed, retrying primary provider...")
		}
	}

	g.logger.Warnf("Primary provider failed. Falling back to %s %s...",
		g.fallback.Name(), g.fallback.DefaultModel())

	data, err := g.fallback.Generate(ctx, prompt, "", opts)
	if err != nil {
		return nil, &FallbackError{
			Primary:      primaryErr,
			Fallback:     err,
			FallbackName: g.fallback.Name(),
		}
	}
	return data, nil
}

var _ Provider = (*FallbackGenerator)(nil)
