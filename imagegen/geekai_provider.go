// Package imagegen generates images from text prompts through a primary
// Gemini-style provider with a GeekAI fallback, and writes them to disk.
//
// geekai_provider.go implements the GeekAIProvider molecule: the fallback
// provider, speaking the OpenAI-compatible images API hosted by GeekAI.
//
// This molecule composes:
//   - atoms.go: aspect ratio prompt suffix, size and quality encoding
//   - downloader.go: fetching the returned image URL
//   - go-openai client: for the images/generations call
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mediaskills/core"
	"mediaskills/logging"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// GeekAIProvider implements Provider for the GeekAI images API.
//
// Thread Safety: GeekAIProvider is safe for concurrent use.
// The underlying OpenAI client handles connection pooling.
type GeekAIProvider struct {
	client       *openai.Client
	downloader   *Downloader
	apiKey       string
	defaultModel string
	logger       *logging.Logger
}

// GeekAIProviderConfig holds configuration specific to the GeekAI provider.
type GeekAIProviderConfig struct {
	// APIKey is the GeekAI bearer token. An empty key fails at call time.
	APIKey string

	// BaseURL is the API endpoint (default: https://geekai.co/api/v1)
	BaseURL string

	// DefaultModel is used for calls with an empty model (default: nano-banana-2)
	DefaultModel string

	// HTTPClient is used for the API call and the image download (optional)
	HTTPClient *http.Client
}

// NewGeekAIProvider creates the fallback provider from core.Config.
func NewGeekAIProvider(cfg *core.Config, logger *logging.Logger) (*GeekAIProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	return NewGeekAIProviderWithConfig(GeekAIProviderConfig{
		APIKey:       cfg.GeekAIAPIKey,
		BaseURL:      cfg.GeekAIBaseURL,
		DefaultModel: cfg.GeekAIImageModel,
		HTTPClient:   core.GetHTTPClient(cfg),
	}, logger), nil
}

// NewGeekAIProviderWithConfig creates a GeekAI provider with explicit configuration.
func NewGeekAIProviderWithConfig(providerCfg GeekAIProviderConfig, logger *logging.Logger) *GeekAIProvider {
	baseURL := providerCfg.BaseURL
	if baseURL == "" {
		baseURL = core.DefaultGeekAIBaseURL
	}
	model := providerCfg.DefaultModel
	if model == "" {
		model = core.DefaultGeekAIImageModel
	}
	client := providerCfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	clientConfig := openai.DefaultConfig(providerCfg.APIKey)
	clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	clientConfig.HTTPClient = &geekAIDoer{client: client}

	return &GeekAIProvider{
		client:       openai.NewClientWithConfig(clientConfig),
		downloader:   NewDownloaderWithClient(client),
		apiKey:       providerCfg.APIKey,
		defaultModel: model,
		logger:       logger.Named("geekai"),
	}
}

// Name returns "GeekAI".
func (p *GeekAIProvider) Name() string { return "GeekAI" }

// DefaultModel returns the configured default model.
func (p *GeekAIProvider) DefaultModel() string { return p.defaultModel }

// Generate requests one image and returns its bytes. A URL result is
// downloaded; otherwise the inline base64 payload is decoded.
//
// Reference images are not sent to GeekAI.
func (p *GeekAIProvider) Generate(ctx context.Context, prompt, model string, opts Options) ([]byte, error) {
	if p.apiKey == "" {
		return nil, core.ErrMissingAuth("GEEKAI_API_KEY", "for GeekAI fallback")
	}
	if model == "" {
		model = p.defaultModel
	}

	req := openai.ImageRequest{
		Prompt:         AddAspectRatioToPrompt(prompt, opts.AspectRatio),
		Model:          model,
		N:              1,
		Size:           GeekAISize(opts, model),
		Quality:        GeekAIQuality(opts.Quality),
		ResponseFormat: openai.CreateImageResponseFormatURL,
	}

	p.logger.Debug("Generating image with GeekAI",
		zap.String("model", model),
		zap.String("size", req.Size),
		zap.String("quality", req.Quality))

	resp, err := p.client.CreateImage(ctx, req)
	if err != nil {
		var providerErr *ProviderError
		if errors.As(err, &providerErr) {
			return nil, providerErr
		}
		return nil, fmt.Errorf("GeekAI API request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Message: "GeekAI returned empty data"}
	}
	first := resp.Data[0]

	if first.URL != "" {
		data, _, err := p.downloader.DownloadBytes(ctx, first.URL)
		if err != nil {
			var dlErr *core.DownloadError
			if errors.As(err, &dlErr) {
				return nil, &ProviderError{
					Provider:   p.Name(),
					Message:    "GeekAI image download error",
					StatusCode: dlErr.StatusCode,
					Body:       dlErr.Body,
				}
			}
			return nil, err
		}
		return data, nil
	}

	if first.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(first.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode GeekAI image data: %w", err)
		}
		return data, nil
	}

	return nil, &ProviderError{Provider: p.Name(), Message: "GeekAI response does not contain image data"}
}

// geekAIDoer adapts the go-openai transport to GeekAI: it adds the
// synchronous-mode fields to generation requests and turns non-2xx answers
// into ProviderError with the raw body.
type geekAIDoer struct {
	client *http.Client
}

func (d *geekAIDoer) Do(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodPost && strings.HasSuffix(req.URL.Path, "/images/generations") && req.Body != nil {
		if err := injectSyncFields(req); err != nil {
			return nil, err
		}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ProviderError{
			Provider:   "GeekAI",
			Message:    "GeekAI API error",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return resp, nil
}

// injectSyncFields rewrites the JSON body with async=false and retries=0.
func injectSyncFields(req *http.Request) error {
	raw, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read GeekAI request body: %w", err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("failed to decode GeekAI request body: %w", err)
	}
	body["async"] = false
	body["retries"] = 0

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode GeekAI request body: %w", err)
	}

	req.Body = io.NopCloser(bytes.NewReader(payload))
	req.ContentLength = int64(len(payload))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}
	return nil
}

var _ Provider = (*GeekAIProvider)(nil)
