// Package videogen drives the lnapi Sora video API: create a generation task,
// poll it until it settles, then download the result.
//
// client.go implements the Client molecule for the task endpoints.
//
// This molecule composes:
//   - core.Config: API key, base URL, HTTP client settings
//   - net/http + encoding/json: the task API calls
//   - core.DownloadToFile: streaming the finished video to disk
package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mediaskills/core"
	"mediaskills/logging"

	"go.uber.org/zap"
)

// Task states reported by the API.
const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Defaults for the create request and polling.
const (
	DefaultModel        = "sora-2"
	DefaultSeconds      = "10"
	DefaultSize         = "720x1280"
	DefaultPollInterval = 5 * time.Second
)

// CreateRequest is the body of POST /videos.
type CreateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Image   string `json:"image,omitempty"`
	Seconds string `json:"seconds,omitempty"`
	Size    string `json:"size,omitempty"`
}

// Task is a video generation task as returned by the API.
type Task struct {
	ID            string   `json:"id"`
	Object        string   `json:"object"`
	Model         string   `json:"model"`
	Status        string   `json:"status"`
	Progress      *float64 `json:"progress,omitempty"`
	CreatedAt     int64    `json:"created_at"`
	VideoURL      string   `json:"video_url,omitempty"`
	FailureReason string   `json:"failure_reason,omitempty"`
}

// Pending reports whether the task is still queued or running.
func (t *Task) Pending() bool {
	return t.Status == StatusQueued || t.Status == StatusInProgress
}

// ProgressPercent returns the reported progress, or 0 when absent.
func (t *Task) ProgressPercent() float64 {
	if t.Progress == nil {
		return 0
	}
	return *t.Progress
}

// Client calls the video task API.
//
// Thread Safety: Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

// ClientConfig holds explicit client settings.
type ClientConfig struct {
	// APIKey is sent as a bearer token. An empty key fails at call time.
	APIKey string

	// BaseURL is the API root including the version (default: https://lnapi.com/v1)
	BaseURL string

	HTTPClient *http.Client
}

// NewClient creates a Client from core.Config. The key is LNAPI_KEY.
func NewClient(cfg *core.Config, logger *logging.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("videogen: config cannot be nil")
	}
	return NewClientWithConfig(ClientConfig{
		APIKey:     cfg.LNAPIKey,
		BaseURL:    cfg.SoraBaseURL,
		HTTPClient: core.GetHTTPClient(cfg),
	}, logger), nil
}

// NewClientWithConfig creates a Client with explicit configuration.
func NewClientWithConfig(clientCfg ClientConfig, logger *logging.Logger) *Client {
	baseURL := clientCfg.BaseURL
	if baseURL == "" {
		baseURL = core.DefaultSoraBaseURL
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
		apiKey:     clientCfg.APIKey,
		logger:     logger.Named("sora"),
	}
}

// CreateTask submits a generation request.
func (c *Client) CreateTask(ctx context.Context, req CreateRequest) (*Task, error) {
	if c.apiKey == "" {
		return nil, errMissingKey()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/videos", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("creating video task",
		zap.String("model", req.Model),
		zap.String("seconds", req.Seconds),
		zap.String("size", req.Size),
		zap.Bool("image", req.Image != ""))

	return c.doTask(httpReq, "Failed to create video task")
}

// GetTask fetches the current state of a task.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	if c.apiKey == "" {
		return nil, errMissingKey()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.doTask(httpReq, "Failed to get task status")
}

func (c *Client) doTask(req *http.Request, failure string) (*Task, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", failure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", failure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: %s - %s", failure, resp.Status, string(body))
	}

	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("%s: invalid response: %w", failure, err)
	}
	return &task, nil
}

// WaitForCompletion polls the task every interval while it is pending.
// onPoll, when set, sees the pending state before each wait. The returned
// task is the first non-pending state; it may be failed.
func (c *Client) WaitForCompletion(ctx context.Context, task *Task, interval time.Duration, onPoll func(*Task)) (*Task, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	current := task
	for current.Pending() {
		if onPoll != nil {
			onPoll(current)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return current, ctx.Err()
		case <-timer.C:
		}

		next, err := c.GetTask(ctx, task.ID)
		if err != nil {
			return current, err
		}
		c.logger.Debug("task polled",
			zap.String("task_id", next.ID),
			zap.String("status", next.Status),
			zap.Float64("progress", next.ProgressPercent()))
		current = next
	}
	return current, nil
}

// Download streams the finished video to destPath and returns its size.
// onProgress receives the byte counts while the transfer runs.
func (c *Client) Download(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error) {
	written, err := core.DownloadToFile(ctx, core.DownloadOptions{
		URL:        url,
		DestPath:   destPath,
		HTTPClient: c.httpClient,
		OnProgress: onProgress,
	})
	if err != nil {
		var dlErr *core.DownloadError
		if errors.As(err, &dlErr) {
			return 0, fmt.Errorf("Failed to download video: %s", dlErr.Status)
		}
		return written, err
	}
	return written, nil
}

func errMissingKey() error {
	return &core.ConfigError{
		Code:    core.ErrCodeMissingAuth,
		Message: "LNAPI_KEY is not set in environment",
	}
}
