package imagegen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediaskills/core"
)

// TestDownloadBytes_EmptyURL tests that empty URL returns error.
func TestDownloadBytes_EmptyURL(t *testing.T) {
	downloader := NewDownloaderWithClient(nil)

	data, _, err := downloader.DownloadBytes(context.Background(), "")
	if err == nil {
		t.Error("expected error for empty URL, got nil")
	}
	if data != nil {
		t.Error("expected nil data for empty URL")
	}
}

// TestDownloadBytes_Success tests a successful download.
func TestDownloadBytes_Success(t *testing.T) {
	imageData := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(imageData)
	}))
	defer server.Close()

	downloader := NewDownloaderWithClient(core.GetHTTPClient(&core.Config{}))

	data, contentType, err := downloader.DownloadBytes(context.Background(), server.URL+"/image.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(imageData) {
		t.Errorf("expected %d bytes of image data, got %d", len(imageData), len(data))
	}
	if contentType != "image/png" {
		t.Errorf("expected content type image/png, got %s", contentType)
	}
}

// TestDownloadBytes_HTTPError tests that non-2xx answers carry the status and body.
func TestDownloadBytes_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("expired"))
	}))
	defer server.Close()

	downloader := NewDownloaderWithClient(server.Client())

	_, _, err := downloader.DownloadBytes(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404 response, got nil")
	}

	var dlErr *core.DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("expected *core.DownloadError, got %T", err)
	}
	if dlErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", dlErr.StatusCode)
	}
	if dlErr.Body != "expired" {
		t.Errorf("expected body %q, got %q", "expired", dlErr.Body)
	}
}

// TestDownloadBytes_ContextCancelled tests that a cancelled context aborts the request.
func TestDownloadBytes_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewDownloaderWithClient(server.Client()).DownloadBytes(ctx, server.URL)
	if err == nil {
		t.Error("expected error for cancelled context, got nil")
	}
}
