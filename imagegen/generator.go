// Package imagegen generates images from text prompts through a primary
// Gemini-style provider with a GeekAI fallback, and writes them to disk.
//
// generator.go implements the Generator organism that runs one generation
// end to end: provider call with fallback, then a format-checked write.
//
// This organism composes:
//   - FallbackGenerator: GeminiProvider with a GeekAIProvider fallback
//   - Writer: extension correction, directory creation, file write
//   - logging.Logger: for structured logging
package imagegen

import (
	"context"
	"fmt"
	"strings"

	"mediaskills/core"
	"mediaskills/logging"

	"go.uber.org/zap"
)

// Request is one image to generate.
type Request struct {
	Prompt string

	// Model is passed to the primary provider; empty selects its default.
	Model string

	// OutputPath is the requested file path, already normalized.
	OutputPath string

	Options Options
}

// Generator handles the end-to-end image generation pipeline.
//
// Thread-Safety:
//   - Generator is safe for concurrent use
//   - Concurrent calls must target distinct output paths
type Generator struct {
	provider Provider
	writer   *Writer
	logger   *logging.Logger
}

// NewGenerator creates a Generator from a provider (usually a
// FallbackGenerator) and a Writer.
func NewGenerator(provider Provider, writer *Writer, logger *logging.Logger) (*Generator, error) {
	if provider == nil {
		return nil, fmt.Errorf("imagegen: provider cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if writer == nil {
		writer = NewWriter(logger)
	}
	return &Generator{
		provider: provider,
		writer:   writer,
		logger:   logger.Named("generator"),
	}, nil
}

// NewGeneratorFromConfig wires the Gemini primary, the GeekAI fallback and a
// Writer from core.Config.
//
// Provider keys are not checked here: a missing LNAPI_KEY fails each primary
// attempt and a missing GEEKAI_API_KEY fails the fallback, both at call time.
func NewGeneratorFromConfig(cfg *core.Config, logger *logging.Logger) (*Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	primary, err := NewGeminiProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("imagegen: failed to create primary provider: %w", err)
	}
	fallback, err := NewGeekAIProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("imagegen: failed to create fallback provider: %w", err)
	}
	chain, err := NewFallbackGenerator(primary, fallback, DefaultPrimaryAttempts, logger)
	if err != nil {
		return nil, err
	}

	logger.Named("generator-init").Debug("image providers configured",
		zap.String("primary_model", primary.DefaultModel()),
		zap.String("fallback_model", fallback.DefaultModel()))

	return NewGenerator(chain, NewWriter(logger), logger)
}

// DefaultModel is the model used for requests without one.
func (g *Generator) DefaultModel() string { return g.provider.DefaultModel() }

// GenerateToFile generates one image and writes it. The returned SavedImage
// has the path actually written, which may differ from req.OutputPath in
// its extension.
func (g *Generator) GenerateToFile(ctx context.Context, req Request) (*SavedImage, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("imagegen: prompt cannot be empty")
	}
	if req.OutputPath == "" {
		return nil, fmt.Errorf("imagegen: output path cannot be empty")
	}

	log := g.logger.With(zap.String("output", req.OutputPath))
	log.Debug("starting image generation",
		zap.String("model", req.Model),
		zap.String("prompt_preview", TruncateRunes(req.Prompt, 50)))

	data, err := g.provider.Generate(ctx, req.Prompt, req.Model, req.Options)
	if err != nil {
		return nil, err
	}

	saved, err := g.writer.Save(req.OutputPath, data)
	if err != nil {
		return nil, err
	}

	log.Debug("image saved",
		zap.String("path", saved.Path),
		zap.String("size", core.FormatBytes(int64(saved.Bytes))))
	return saved, nil
}
