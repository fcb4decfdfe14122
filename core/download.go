package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// progressInterval is how many bytes pass between progress callbacks.
const progressInterval = 1 << 20

// DownloadOptions configures DownloadToFile.
type DownloadOptions struct {
	// URL to download from
	URL string
	// DestPath is the local file path to save to; parent directories are created
	DestPath string
	// HTTPClient is the HTTP client to use (http.DefaultClient if nil)
	HTTPClient *http.Client
	// OnProgress is called roughly every MiB and once at the end (optional).
	// total is -1 when the server does not send a length.
	OnProgress func(written, total int64)
}

// DownloadError is returned when the server answers with a non-2xx status.
type DownloadError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed: %s", e.Status)
}

// DownloadToFile streams a URL to disk without buffering it in memory and
// returns the number of bytes written. A failed transfer removes the partial file.
func DownloadToFile(ctx context.Context, opts DownloadOptions) (int64, error) {
	if opts.URL == "" {
		return 0, fmt.Errorf("URL is required")
	}
	if opts.DestPath == "" {
		return 0, fmt.Errorf("DestPath is required")
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, &DownloadError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	if err := os.MkdirAll(filepath.Dir(opts.DestPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create destination directory: %w", err)
	}

	file, err := os.Create(opts.DestPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open destination file: %w", err)
	}

	reader := &progressReader{
		reader:     resp.Body,
		total:      resp.ContentLength,
		onProgress: opts.OnProgress,
	}

	written, copyErr := io.Copy(file, reader)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(opts.DestPath)
		if copyErr != nil {
			return written, fmt.Errorf("download interrupted: %w", copyErr)
		}
		return written, fmt.Errorf("failed to close destination file: %w", closeErr)
	}

	if opts.OnProgress != nil {
		opts.OnProgress(written, resp.ContentLength)
	}
	return written, nil
}

// progressReader wraps an io.Reader and reports throughput.
type progressReader struct {
	reader       io.Reader
	total        int64
	written      int64
	lastCallback int64
	onProgress   func(written, total int64)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.written += int64(n)
		if r.onProgress != nil && r.written-r.lastCallback >= progressInterval {
			r.onProgress(r.written, r.total)
			r.lastCallback = r.written
		}
	}
	return n, err
}
