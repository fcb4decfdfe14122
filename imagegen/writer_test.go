package imagegen

import (
	"os"
	"path/filepath"
	"testing"

	"mediaskills/logging"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestWriter_CorrectsExtension tests that PNG bytes requested as .jpg land in .png.
func TestWriter_CorrectsExtension(t *testing.T) {
	dir := t.TempDir()
	requested := filepath.Join(dir, "nested", "cat.jpg")

	obsCore, logs := observer.New(zapcore.WarnLevel)
	writer := NewWriter(logging.NewLoggerFromCore(obsCore))

	saved, err := writer.Save(requested, pngBytes(t, 8, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedPath := filepath.Join(dir, "nested", "cat.png")
	if saved.Path != expectedPath {
		t.Errorf("expected %s, got %s", expectedPath, saved.Path)
	}
	if !saved.Corrected || saved.Requested != requested {
		t.Errorf("unexpected saved image: %+v", saved)
	}
	if saved.Width != 8 || saved.Height != 4 || saved.Format != "png" {
		t.Errorf("unexpected dimensions: %+v", saved)
	}
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
	if _, err := os.Stat(requested); !os.IsNotExist(err) {
		t.Error("requested path should not be written")
	}

	msg := "Output extension .jpg does not match image format .png, saved as " + expectedPath
	if logs.FilterMessage(msg).Len() != 1 {
		t.Errorf("expected extension warning, got %v", logs.All())
	}
}

// TestWriter_WarnsWithLowerCaseExtension tests that the warning names the
// requested extension in lower case.
func TestWriter_WarnsWithLowerCaseExtension(t *testing.T) {
	dir := t.TempDir()
	requested := filepath.Join(dir, "CAT.JPG")

	obsCore, logs := observer.New(zapcore.WarnLevel)
	saved, err := NewWriter(logging.NewLoggerFromCore(obsCore)).Save(requested, pngBytes(t, 2, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedPath := filepath.Join(dir, "CAT.png")
	if saved.Path != expectedPath {
		t.Errorf("expected %s, got %s", expectedPath, saved.Path)
	}
	msg := "Output extension .jpg does not match image format .png, saved as " + expectedPath
	if logs.FilterMessage(msg).Len() != 1 {
		t.Errorf("expected lower-case extension warning, got %v", logs.All())
	}
}

// TestWriter_KeepsMatchingPath tests the no-correction path.
func TestWriter_KeepsMatchingPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cat.png")

	obsCore, logs := observer.New(zapcore.WarnLevel)
	saved, err := NewWriter(logging.NewLoggerFromCore(obsCore)).Save(path, pngBytes(t, 2, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Path != path || saved.Corrected {
		t.Errorf("unexpected saved image: %+v", saved)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no warnings, got %v", logs.All())
	}
}

// TestWriter_UnknownFormat tests that unrecognized bytes are written as-is.
func TestWriter_UnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.png")

	saved, err := NewWriter(nil).Save(path, []byte("not an image"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Path != path || saved.Width != 0 {
		t.Errorf("unexpected saved image: %+v", saved)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "not an image" {
		t.Errorf("unexpected file content: %q", data)
	}
}
