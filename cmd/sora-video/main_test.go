package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// newSoraServer simulates a task that is in progress on the first poll and
// settles with final on the second.
func newSoraServer(t *testing.T, final string) *httptest.Server {
	t.Helper()
	var polls atomic.Int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") && r.Header.Get("Authorization") != "Bearer test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/videos":
			w.Write([]byte(`{"id":"video_1","object":"video","model":"sora-2","status":"queued","progress":0}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v1/videos/video_1":
			if polls.Add(1) == 1 {
				w.Write([]byte(`{"id":"video_1","status":"in_progress","progress":50}`))
				return
			}
			w.Write([]byte(strings.ReplaceAll(final, "{{base}}", server.URL)))
		case r.URL.Path == "/files/video_1.mp4":
			w.Header().Set("Content-Type", "video/mp4")
			w.Write([]byte("fake-mp4-data"))
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func isolateEnv(t *testing.T, baseURL string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LNAPI_KEY", "test-key")
	t.Setenv("SORA_BASE_URL", baseURL+"/v1")
	t.Setenv("MEDIASKILLS_LOG_LEVEL", "error")
	t.Setenv("MEDIASKILLS_LOG_FILE", "")
}

// TestRun_TextMode tests the progress lines and the download.
func TestRun_TextMode(t *testing.T) {
	server := newSoraServer(t, `{"id":"video_1","status":"completed","progress":100,"video_url":"{{base}}/files/video_1.mp4"}`)
	isolateEnv(t, server.URL)

	out := filepath.Join(t.TempDir(), "clips", "v.mp4")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-p", "waves", "--output", out, "--poll", "1"}, nil, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}

	text := stdout.String()
	for _, want := range []string{
		"Starting video generation...\n",
		"Prompt: waves\n",
		"Task created: video_1\n",
		"Status: queued (Progress: 0%) \r",
		"Status: in_progress (Progress: 50%) \r",
		"\nFinal Status: completed\n",
		"Video saved to: " + out + "\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got %q", want, text)
		}
	}
	if strings.Contains(text, "Image input provided") {
		t.Error("unexpected image notice without --image")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected downloaded file: %v", err)
	}
	if string(data) != "fake-mp4-data" {
		t.Errorf("unexpected video content %q", data)
	}
}

// TestRun_JSONMode tests the success and failure summaries.
func TestRun_JSONMode(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		server := newSoraServer(t, `{"id":"video_1","status":"completed","video_url":"{{base}}/files/video_1.mp4"}`)
		isolateEnv(t, server.URL)

		out := filepath.Join(t.TempDir(), "v.mp4")
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-p", "waves", "--output", out, "--poll", "1", "--json"}, nil, &stdout, &stderr)
		if code != 0 {
			t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
		}

		var result successResult
		if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
			t.Fatalf("failed to decode output: %v (%s)", err, stdout.String())
		}
		if result.SavedVideo != out || result.Provider != "lnapi-sora" || result.Model != "sora-2" || result.Prompt != "waves" {
			t.Errorf("unexpected summary: %+v", result)
		}
		if result.Task == nil || result.Task.Status != "completed" {
			t.Errorf("expected completed task, got %+v", result.Task)
		}
	})

	t.Run("failed", func(t *testing.T) {
		server := newSoraServer(t, `{"id":"video_1","status":"failed"}`)
		isolateEnv(t, server.URL)

		out := filepath.Join(t.TempDir(), "v.mp4")
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-p", "waves", "--output", out, "--poll", "1", "--json"}, nil, &stdout, &stderr)
		if code != 1 {
			t.Fatalf("expected exit 1, got %d", code)
		}

		var result failureResult
		if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
			t.Fatalf("failed to decode output: %v (%s)", err, stdout.String())
		}
		if result.Error != "Unknown error" {
			t.Errorf("expected Unknown error, got %q", result.Error)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Error("expected no output file for a failed task")
		}
	})
}

// TestRun_FailedTextMode tests the failure line on stderr.
func TestRun_FailedTextMode(t *testing.T) {
	server := newSoraServer(t, `{"id":"video_1","status":"failed","failure_reason":"content policy"}`)
	isolateEnv(t, server.URL)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-p", "waves", "--output", filepath.Join(t.TempDir(), "v.mp4"), "--poll", "1"}, nil, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Generation failed: content policy") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

// TestRun_UsageErrors tests the checks made before the task is created.
func TestRun_UsageErrors(t *testing.T) {
	isolateEnv(t, "http://127.0.0.1:1")

	tests := []struct {
		name    string
		argv    []string
		wantErr string
	}{
		{"no prompt", []string{"--output", "v.mp4"}, "Error: Prompt is required"},
		{"no output", []string{"-p", "waves"}, "Error: Output path is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(context.Background(), tt.argv, nil, &stdout, &stderr); code != 1 {
				t.Errorf("expected exit 1, got %d", code)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("expected %q, got %q", tt.wantErr, stderr.String())
			}
			if !strings.Contains(stdout.String(), "Usage:") {
				t.Error("expected usage on stdout")
			}
		})
	}
}
