package core

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Default provider endpoints and models.
const (
	DefaultGoogleImageModel = "gemini-3-pro-image-preview"
	DefaultGoogleBaseURL    = "https://lnapi.com"
	DefaultGeekAIImageModel = "nano-banana-2"
	DefaultGeekAIBaseURL    = "https://geekai.co/api/v1"
	DefaultSoraBaseURL      = "https://lnapi.com/v1"
	DefaultTikHubBaseURL    = "https://api.tikhub.io"
)

// Config holds all configuration values shared by the command-line tools.
// API keys are optional at load time; each client checks its own key when called.
type Config struct {
	// Image generation (primary provider, Gemini-style API behind lnapi)
	LNAPIKey         string `env:"LNAPI_KEY"`
	GoogleImageModel string `env:"GOOGLE_IMAGE_MODEL, default=gemini-3-pro-image-preview"`
	GoogleBaseURL    string `env:"GOOGLE_BASE_URL, default=https://lnapi.com"`

	// Image generation fallback (GeekAI, OpenAI-compatible API)
	GeekAIAPIKey     string `env:"GEEKAI_API_KEY"`
	GeekAIImageModel string `env:"GEEKAI_IMAGE_MODEL, default=nano-banana-2"`
	GeekAIBaseURL    string `env:"GEEKAI_BASE_URL, default=https://geekai.co/api/v1"`

	// Video generation (shares LNAPI_KEY)
	SoraBaseURL string `env:"SORA_BASE_URL, default=https://lnapi.com/v1"`

	// Douyin share metadata
	TikHubAPIKey  string `env:"TIKHUB_API_KEY"`
	TikHubBaseURL string `env:"TIKHUB_BASE_URL, default=https://api.tikhub.io"`

	// HTTPTimeout bounds each HTTP call. Zero means no client-side timeout.
	HTTPTimeout          time.Duration `env:"MEDIASKILLS_HTTP_TIMEOUT, default=0s"`
	AllowSelfSignedCerts bool          `env:"ALLOW_SELF_SIGNED_CERTS, default=false"`

	// Logging
	LogLevel    string `env:"MEDIASKILLS_LOG_LEVEL, default=info"`
	LogFile     string `env:"MEDIASKILLS_LOG_FILE"`
	Development bool   `env:"MEDIASKILLS_DEV, default=false"`
}

// LoadConfig resolves Config from the process environment layered over the
// given env files. The process environment is not modified.
func LoadConfig(ctx context.Context, layers *EnvLayers) (*Config, error) {
	return LoadConfigWith(ctx, layers.Lookuper())
}

// LoadConfigWith resolves Config from an arbitrary lookuper.
func LoadConfigWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, &ConfigError{
			Code:    ErrCodeInvalidConfig,
			Message: fmt.Sprintf("Invalid configuration: %v", err),
			Action:  "Check the environment variables and .env files",
		}
	}

	if cfg.HTTPTimeout < 0 {
		return nil, &ConfigError{
			Code:    ErrCodeInvalidConfig,
			Message: fmt.Sprintf("MEDIASKILLS_HTTP_TIMEOUT must not be negative, got %s", cfg.HTTPTimeout),
			Action:  "Set MEDIASKILLS_HTTP_TIMEOUT to 0 (no timeout) or a positive duration such as 90s",
		}
	}

	for _, base := range []struct{ name, value string }{
		{"GOOGLE_BASE_URL", cfg.GoogleBaseURL},
		{"GEEKAI_BASE_URL", cfg.GeekAIBaseURL},
		{"SORA_BASE_URL", cfg.SoraBaseURL},
		{"TIKHUB_BASE_URL", cfg.TikHubBaseURL},
	} {
		if err := ValidateBaseURL(base.name, base.value); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// GetHTTPClient returns an HTTP client configured with the timeout and TLS settings.
func GetHTTPClient(cfg *Config) *http.Client {
	client := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	if cfg.AllowSelfSignedCerts {
		client.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return client
}
