// Package douyin resolves Douyin share URLs to video metadata through the
// TikHub API and normalizes the response.
package douyin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mediaskills/core"
	"mediaskills/logging"

	"go.uber.org/zap"
)

const fetchByShareURLPath = "/api/v1/douyin/web/fetch_one_video_by_share_url"

// nonJSONPreview bounds the body excerpt in non-JSON errors.
const nonJSONPreview = 400

// Client calls the TikHub Douyin endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

// ClientConfig holds explicit client settings.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Client from core.Config.
func NewClient(cfg *core.Config, logger *logging.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("douyin: config cannot be nil")
	}
	return NewClientWithConfig(ClientConfig{
		APIKey:     cfg.TikHubAPIKey,
		BaseURL:    cfg.TikHubBaseURL,
		HTTPClient: core.GetHTTPClient(cfg),
	}, logger), nil
}

// NewClientWithConfig creates a Client with explicit configuration.
// The key is trimmed; trailing slashes are removed from the base URL.
func NewClientWithConfig(clientCfg ClientConfig, logger *logging.Logger) *Client {
	baseURL := clientCfg.BaseURL
	if baseURL == "" {
		baseURL = core.DefaultTikHubBaseURL
	}
	httpClient := clientCfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(clientCfg.APIKey),
		logger:     logger.Named("tikhub"),
	}
}

// FetchByShareURL fetches one video by its share URL. It returns the decoded
// response together with the raw body so callers can keep the original.
func (c *Client) FetchByShareURL(ctx context.Context, shareURL string) (*Response, []byte, error) {
	if c.apiKey == "" {
		return nil, nil, core.ErrMissingAuth("TIKHUB_API_KEY", "")
	}

	endpoint, err := url.Parse(c.baseURL + fetchByShareURLPath)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid TikHub base URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("share_url", shareURL)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("fetching share URL", zap.String("share_url", shareURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("TikHub request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read TikHub response: %w", err)
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, nil, fmt.Errorf("TikHub returned non-JSON response (%d): %s",
			resp.StatusCode, truncate(string(body), nonJSONPreview))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := decoded.Message
		if message == "" {
			message = "Unknown error"
		}
		return nil, nil, fmt.Errorf("TikHub request failed (%d): %s", resp.StatusCode, message)
	}

	return &decoded, body, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
