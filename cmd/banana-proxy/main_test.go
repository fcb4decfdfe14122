package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
)

// testPNG returns the bytes of a w x h PNG.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// newGeminiServer serves a fixed image for every generateContent call.
func newGeminiServer(t *testing.T, data []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"inlineData":{"data":%q}}]}}]}`,
			base64.StdEncoding.EncodeToString(data))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

// isolateEnv points every configuration source at test values.
func isolateEnv(t *testing.T, baseURL string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LNAPI_KEY", "test-key")
	t.Setenv("GOOGLE_BASE_URL", baseURL)
	t.Setenv("GEEKAI_API_KEY", "")
	t.Setenv("MEDIASKILLS_LOG_LEVEL", "error")
	t.Setenv("MEDIASKILLS_LOG_FILE", "")
}

// TestRun_HelpAndVersion tests the informational flags.
func TestRun_HelpAndVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"--help"}, nil, &stdout, &stderr); code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "--batch <file>") {
		t.Errorf("expected usage, got %q", stdout.String())
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"--version"}, nil, &stdout, &stderr); code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "banana-proxy ") {
		t.Errorf("unexpected version output %q", stdout.String())
	}
}

// TestRun_UsageErrors tests the errors reported before any request is sent.
func TestRun_UsageErrors(t *testing.T) {
	server, calls := newGeminiServer(t, testPNG(t, 2, 2))
	isolateEnv(t, server.URL)

	emptyBatch := filepath.Join(t.TempDir(), "empty.jsonl")
	if err := os.WriteFile(emptyBatch, []byte("\n  \n"), 0644); err != nil {
		t.Fatalf("failed to write batch file: %v", err)
	}
	badBatch := filepath.Join(t.TempDir(), "bad.jsonl")
	if err := os.WriteFile(badBatch, []byte(`{"prompt":"a","image":"a.png"}`+"\n{oops\n"), 0644); err != nil {
		t.Fatalf("failed to write batch file: %v", err)
	}

	tests := []struct {
		name      string
		argv      []string
		wantErr   string
		wantUsage bool
	}{
		{"bad flag", []string{"--quality", "ultra"}, "Invalid quality: ultra", false},
		{"no prompt", []string{"--image", "x.png"}, "Error: Prompt is required", true},
		{"no image", []string{"-p", "a cat"}, "Error: --image is required", true},
		{"empty batch", []string{"--batch", emptyBatch}, "Error: --batch file has no tasks", false},
		{"malformed batch", []string{"--batch", badBatch}, "Invalid JSONL at line 2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.argv, nil, &stdout, &stderr)
			if code != 1 {
				t.Errorf("expected exit 1, got %d", code)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("expected stderr to contain %q, got %q", tt.wantErr, stderr.String())
			}
			if got := strings.Contains(stdout.String(), "Usage:"); got != tt.wantUsage {
				t.Errorf("usage printed = %v, want %v", got, tt.wantUsage)
			}
		})
	}

	if calls.Load() != 0 {
		t.Errorf("expected no provider calls, got %d", calls.Load())
	}
}

// TestRun_Single tests one generation with the extension corrected to the
// detected format and the JSON summary.
func TestRun_Single(t *testing.T) {
	server, _ := newGeminiServer(t, testPNG(t, 6, 3))
	isolateEnv(t, server.URL)

	out := filepath.Join(t.TempDir(), "art", "cat.jpg")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-p", "a cat", "--image", out, "--json"}, nil, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}

	var result singleResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode output: %v (%s)", err, stdout.String())
	}
	want := strings.TrimSuffix(out, ".jpg") + ".png"
	if result.SavedImage != want {
		t.Errorf("expected %s, got %s", want, result.SavedImage)
	}
	if result.Provider != "banana-gemini" || result.Model != "gemini-3-pro-image-preview" || result.Prompt != "a cat" {
		t.Errorf("unexpected summary: %+v", result)
	}
	if result.Width != 6 || result.Height != 3 {
		t.Errorf("expected 6x3, got %dx%d", result.Width, result.Height)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected file on disk: %v", err)
	}
}

// TestRun_Batch tests a JSONL batch end to end with the text report.
func TestRun_Batch(t *testing.T) {
	color.NoColor = true
	server, calls := newGeminiServer(t, testPNG(t, 2, 2))
	isolateEnv(t, server.URL)

	dir := t.TempDir()
	var lines []string
	for i := 1; i <= 3; i++ {
		lines = append(lines, fmt.Sprintf(`{"prompt":"task %d","image":%q}`, i, filepath.Join(dir, fmt.Sprintf("img%d", i))))
	}
	batchFile := filepath.Join(dir, "jobs.jsonl")
	if err := os.WriteFile(batchFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		t.Fatalf("failed to write batch file: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--batch", batchFile, "--concurrency", "2"}, nil, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 provider calls, got %d", calls.Load())
	}

	report := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(report) != 3 {
		t.Fatalf("expected 3 report lines, got %q", stdout.String())
	}
	for i, line := range report {
		want := fmt.Sprintf("[OK][%d] %s", i+1, filepath.Join(dir, fmt.Sprintf("img%d.png", i+1)))
		if line != want {
			t.Errorf("line %d: expected %q, got %q", i+1, want, line)
		}
	}
}
