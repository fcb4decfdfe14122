package imagegen

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"strings"
	"testing"
)

// pngBytes encodes a w×h transparent PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestAddAspectRatioToPrompt(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		ar       string
		expected string
	}{
		{"no ratio", "A cat", "", "A cat"},
		{"with ratio", "A cat", "16:9", "A cat Aspect ratio: 16:9."},
		{"free-form ratio", "Sunset", "2.35:1", "Sunset Aspect ratio: 2.35:1."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AddAspectRatioToPrompt(tt.prompt, tt.ar)
			if result != tt.expected {
				t.Errorf("AddAspectRatioToPrompt(%q, %q) = %q, expected %q", tt.prompt, tt.ar, result, tt.expected)
			}
		})
	}
}

func TestIsGeminiMultimodal(t *testing.T) {
	tests := []struct {
		model    string
		expected bool
	}{
		{"gemini-3-pro-image-preview", true},
		{"models/gemini-3-pro-image-preview", true},
		{"gemini-3-flash-preview", true},
		{"gemini-3-flash-preview-0925", true},
		{"gemini-2.0-flash", false},
		{"nano-banana-2", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if result := IsGeminiMultimodal(tt.model); result != tt.expected {
				t.Errorf("IsGeminiMultimodal(%q) = %v, expected %v", tt.model, result, tt.expected)
			}
		})
	}
}

func TestMimeTypeForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"ref.jpg", "image/jpeg"},
		{"ref.JPEG", "image/jpeg"},
		{"ref.gif", "image/gif"},
		{"ref.webp", "image/webp"},
		{"ref.png", "image/png"},
		{"ref.bmp", "image/png"},
		{"ref", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if result := MimeTypeForPath(tt.path); result != tt.expected {
				t.Errorf("MimeTypeForPath(%q) = %q, expected %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestGeekAISize(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		model    string
		expected string
	}{
		{"nano banana quality 2k", Options{Quality: Quality2K}, "nano-banana-2", "2K"},
		{"nano banana quality normal", Options{Quality: QualityNormal}, "nano-banana-2", "1K"},
		{"nano banana explicit 4K", Options{Quality: QualityNormal, ImageSize: ImageSize4K}, "nano-banana-2-pro", "4K"},
		{"pixel model 4K", Options{ImageSize: ImageSize4K}, "gpt-image-1", "2048x2048"},
		{"pixel model 2K", Options{ImageSize: ImageSize2K}, "gpt-image-1", "1536x1536"},
		{"pixel model 1K", Options{Quality: Quality2K, ImageSize: ImageSize1K}, "gpt-image-1", "1024x1024"},
		{"pixel model quality 2k", Options{Quality: Quality2K}, "gpt-image-1", "1536x1536"},
		{"pixel model quality normal", Options{Quality: QualityNormal}, "gpt-image-1", "1024x1024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := GeekAISize(tt.opts, tt.model); result != tt.expected {
				t.Errorf("GeekAISize() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestGeekAIQuality(t *testing.T) {
	if q := GeekAIQuality(Quality2K); q != "high" {
		t.Errorf("expected high for 2k, got %q", q)
	}
	if q := GeekAIQuality(QualityNormal); q != "medium" {
		t.Errorf("expected medium for normal, got %q", q)
	}
}

func TestDetectImageExtension(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, ".png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, ".jpg"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), ".webp"},
		{"gif87a", []byte("GIF87a......"), ".gif"},
		{"gif89a", []byte("GIF89a......"), ".gif"},
		{"short riff", []byte("RIFF\x00\x00"), ""},
		{"text", []byte("hello world"), ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := DetectImageExtension(tt.data); result != tt.expected {
				t.Errorf("DetectImageExtension() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestWithDetectedExtension(t *testing.T) {
	pngData := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpgData := []byte{0xFF, 0xD8, 0xFF, 0xDB}

	tests := []struct {
		name            string
		path            string
		data            []byte
		expectedPath    string
		expectedChanged bool
	}{
		{"png saved as jpg", "/out/cat.jpg", pngData, "/out/cat.png", true},
		{"matching extension", "/out/cat.png", pngData, "/out/cat.png", false},
		{"jpeg equals jpg", "/out/cat.jpeg", jpgData, "/out/cat.jpeg", false},
		{"uppercase mismatch", "/out/cat.JPG", pngData, "/out/cat.png", true},
		{"no extension", "/out/cat", pngData, "/out/cat.png", false},
		{"unknown format", "/out/cat.jpg", []byte("???"), "/out/cat.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, changed := WithDetectedExtension(tt.path, tt.data)
			if path != tt.expectedPath {
				t.Errorf("expected path %q, got %q", tt.expectedPath, path)
			}
			if changed != tt.expectedChanged {
				t.Errorf("expected changed=%v, got %v", tt.expectedChanged, changed)
			}
		})
	}
}

func TestNormalizeOutputPath(t *testing.T) {
	dir := t.TempDir()

	result, err := NormalizeOutputPath(filepath.Join(dir, "cat"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != filepath.Join(dir, "cat.png") {
		t.Errorf("expected .png to be appended, got %q", result)
	}

	result, err = NormalizeOutputPath(filepath.Join(dir, "cat.webp"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != filepath.Join(dir, "cat.webp") {
		t.Errorf("expected extension to be kept, got %q", result)
	}

	result, err = NormalizeOutputPath("relative/cat.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(result) {
		t.Errorf("expected absolute path, got %q", result)
	}
}

func TestTruncateRunes(t *testing.T) {
	if result := TruncateRunes("short", 200); result != "short" {
		t.Errorf("expected unchanged string, got %q", result)
	}

	long := strings.Repeat("猫", 250)
	result := TruncateRunes(long, 200)
	if got := len([]rune(result)); got != 200 {
		t.Errorf("expected 200 runes, got %d", got)
	}
}

func TestParseQuality(t *testing.T) {
	for _, valid := range []string{"normal", "2k"} {
		if q, err := ParseQuality(valid); err != nil || string(q) != valid {
			t.Errorf("ParseQuality(%q) = %q, %v", valid, q, err)
		}
	}

	_, err := ParseQuality("4k")
	if err == nil {
		t.Fatal("expected error for 4k")
	}
	if err.Error() != "Invalid quality: 4k" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestParseImageSize(t *testing.T) {
	tests := []struct {
		input    string
		expected ImageSize
		wantErr  string
	}{
		{"1K", ImageSize1K, ""},
		{"2k", ImageSize2K, ""},
		{"4K", ImageSize4K, ""},
		{"8k", "", "Invalid imageSize: 8K"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			size, err := ParseImageSize(tt.input)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Errorf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if size != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, size)
			}
		})
	}
}

func TestImageSize_Valid(t *testing.T) {
	for _, size := range []ImageSize{ImageSize1K, ImageSize2K, ImageSize4K} {
		if !size.Valid() {
			t.Errorf("expected %q to be valid", size)
		}
	}
	for _, size := range []ImageSize{"", "4k", "8K"} {
		if size.Valid() {
			t.Errorf("expected %q to be invalid", size)
		}
	}
}

func TestOptionsSizeTier(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected ImageSize
	}{
		{"2k quality", Options{Quality: Quality2K}, ImageSize2K},
		{"normal quality", Options{Quality: QualityNormal}, ImageSize1K},
		{"explicit wins", Options{Quality: QualityNormal, ImageSize: ImageSize4K}, ImageSize4K},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.opts.SizeTier(); result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestProbeImage(t *testing.T) {
	info, err := ProbeImage(pngBytes(t, 32, 16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Width != 32 || info.Height != 16 || info.Format != "png" {
		t.Errorf("unexpected info: %+v", info)
	}

	if _, err := ProbeImage([]byte("not an image")); err == nil {
		t.Error("expected error for non-image data")
	}
}
