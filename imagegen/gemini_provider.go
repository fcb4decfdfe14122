// Package imagegen generates images from text prompts through a primary
// Gemini-style provider with a GeekAI fallback, and writes them to disk.
//
// gemini_provider.go implements the GeminiProvider molecule: the primary
// provider, speaking the Gemini generateContent API through the lnapi proxy.
//
// This molecule composes:
//   - atoms.go: model id normalization, MIME types, aspect ratio prompt suffix
//   - core.Config: API key, base URL, default model, HTTP client settings
//   - net/http + encoding/json: the generateContent call
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"mediaskills/core"
	"mediaskills/logging"

	"go.uber.org/zap"
)

// GeminiProvider implements Provider for the Gemini image models behind lnapi.
//
// Thread Safety: GeminiProvider is safe for concurrent use.
type GeminiProvider struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	defaultModel string
	logger       *logging.Logger
}

// GeminiProviderConfig holds configuration specific to the Gemini provider.
type GeminiProviderConfig struct {
	// APIKey is sent as x-goog-api-key. An empty key fails at call time.
	APIKey string

	// BaseURL is the proxy root (default: https://lnapi.com). A trailing
	// /v1beta is accepted and not repeated.
	BaseURL string

	// DefaultModel is used for calls with an empty model.
	DefaultModel string

	// HTTPClient is the HTTP client for API calls (optional)
	HTTPClient *http.Client
}

type geminiPart struct {
	Text       string        `json:"text,omitempty"`
	InlineData *geminiInline `json:"inlineData,omitempty"`
}

type geminiInline struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiImageConfig struct {
	ImageSize string `json:"imageSize"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string          `json:"responseModalities"`
	ImageConfig        geminiImageConfig `json:"imageConfig"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData *struct {
					Data string `json:"data"`
				} `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewGeminiProvider creates the primary provider from core.Config.
func NewGeminiProvider(cfg *core.Config, logger *logging.Logger) (*GeminiProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	return NewGeminiProviderWithConfig(GeminiProviderConfig{
		APIKey:       cfg.LNAPIKey,
		BaseURL:      cfg.GoogleBaseURL,
		DefaultModel: cfg.GoogleImageModel,
		HTTPClient:   core.GetHTTPClient(cfg),
	}, logger), nil
}

// NewGeminiProviderWithConfig creates a Gemini provider with explicit configuration.
// This is useful for testing against an httptest server.
func NewGeminiProviderWithConfig(providerCfg GeminiProviderConfig, logger *logging.Logger) *GeminiProvider {
	baseURL := providerCfg.BaseURL
	if baseURL == "" {
		baseURL = core.DefaultGoogleBaseURL
	}
	model := providerCfg.DefaultModel
	if model == "" {
		model = core.DefaultGoogleImageModel
	}
	client := providerCfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &GeminiProvider{
		client:       client,
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       providerCfg.APIKey,
		defaultModel: model,
		logger:       logger.Named("gemini"),
	}
}

// Name returns "Google".
func (p *GeminiProvider) Name() string { return "Google" }

// DefaultModel returns the configured default model.
func (p *GeminiProvider) DefaultModel() string { return p.defaultModel }

// Generate sends one generateContent request and returns the first inline
// image in the response.
//
// The request carries the reference images as inline base64 parts followed by
// the prompt (with the aspect ratio suffix), and asks for IMAGE output at the
// size tier from opts.
func (p *GeminiProvider) Generate(ctx context.Context, prompt, model string, opts Options) ([]byte, error) {
	if model == "" {
		model = p.defaultModel
	}

	if len(opts.ReferenceImages) > 0 && !IsGeminiMultimodal(model) {
		p.logger.Warn("Reference images are only supported with Gemini multimodal models",
			zap.String("model", model),
			zap.Int("references", len(opts.ReferenceImages)))
	}

	parts := make([]geminiPart, 0, len(opts.ReferenceImages)+1)
	for _, ref := range opts.ReferenceImages {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to read reference image %s: %w", ref, err)
		}
		parts = append(parts, geminiPart{InlineData: &geminiInline{
			Data:     base64.StdEncoding.EncodeToString(data),
			MimeType: MimeTypeForPath(ref),
		}})
	}
	parts = append(parts, geminiPart{Text: AddAspectRatioToPrompt(prompt, opts.AspectRatio)})

	if p.apiKey == "" {
		return nil, core.ErrMissingAuth("LNAPI_KEY", "")
	}

	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        geminiImageConfig{ImageSize: string(opts.SizeTier())},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(model), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	p.logger.Debug("Generating image with Gemini",
		zap.String("model", model),
		zap.String("image_size", string(opts.SizeTier())))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Google API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Google API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{
			Provider:   p.Name(),
			Message:    "Google API error",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var gResp geminiResponse
	if err := json.Unmarshal(respBody, &gResp); err != nil {
		return nil, fmt.Errorf("failed to decode Google API response: %w", err)
	}

	for _, candidate := range gResp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode inline image data: %w", err)
			}
			return data, nil
		}
	}

	return nil, &ProviderError{Provider: p.Name(), Message: "No image in response"}
}

// endpoint builds {base}/v1beta/models/{model}:generateContent.
func (p *GeminiProvider) endpoint(model string) string {
	path := "models/" + NormalizeGeminiModelID(model) + ":generateContent"
	if strings.HasSuffix(p.baseURL, "/v1beta") {
		return p.baseURL + "/" + path
	}
	return p.baseURL + "/v1beta/" + path
}

var _ Provider = (*GeminiProvider)(nil)
