// Package imagegen generates images from text prompts through a primary
// Gemini-style provider with a GeekAI fallback, and writes them to disk.
//
// downloader.go implements the Downloader molecule that fetches generated
// images from the temporary URLs returned by the fallback provider.
//
// This molecule composes:
//   - core.DownloadError: for non-2xx responses
//   - net/http: for HTTP downloads
package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"mediaskills/core"
)

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 64 * 1024

// Downloader fetches image bytes from URLs.
//
// Thread Safety: Downloader is safe for concurrent use.
// Each download creates its own HTTP request.
type Downloader struct {
	client *http.Client
}

// NewDownloaderWithClient creates a downloader with an explicit HTTP client.
func NewDownloaderWithClient(client *http.Client) *Downloader {
	if client == nil {
		client = &http.Client{}
	}
	return &Downloader{client: client}
}

// DownloadBytes downloads a URL and returns the raw bytes and Content-Type.
// A non-2xx status returns *core.DownloadError carrying the response body.
func (d *Downloader) DownloadBytes(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", fmt.Errorf("imagegen: URL cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to create download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, "", &core.DownloadError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to read image data: %w", err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
