// Package imagegen generates images from text prompts through a primary
// Gemini-style provider with a GeekAI fallback, and writes them to disk.
//
// atoms.go contains pure utility functions with no dependencies.
package imagegen

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// geminiMultimodalModels accept inline reference images.
var geminiMultimodalModels = []string{"gemini-3-pro-image-preview", "gemini-3-flash-preview"}

// AddAspectRatioToPrompt appends the aspect ratio hint both providers expect.
//
// Example:
//
//	AddAspectRatioToPrompt("A cat", "16:9") // "A cat Aspect ratio: 16:9."
//	AddAspectRatioToPrompt("A cat", "")     // "A cat"
func AddAspectRatioToPrompt(prompt, aspectRatio string) string {
	if aspectRatio == "" {
		return prompt
	}
	return prompt + " Aspect ratio: " + aspectRatio + "."
}

// NormalizeGeminiModelID strips a leading "models/" from a model id.
func NormalizeGeminiModelID(model string) string {
	return strings.TrimPrefix(model, "models/")
}

// IsGeminiMultimodal reports whether model accepts reference images.
func IsGeminiMultimodal(model string) bool {
	normalized := NormalizeGeminiModelID(model)
	for _, m := range geminiMultimodalModels {
		if strings.Contains(normalized, m) {
			return true
		}
	}
	return false
}

// MimeTypeForPath maps a reference image extension to its MIME type,
// defaulting to image/png.
func MimeTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// GeekAISize encodes the size for a GeekAI request. nano-banana-2 models take
// the tier directly; other models take square pixel dimensions.
//
// Example:
//
//	GeekAISize(Options{Quality: Quality2K}, "nano-banana-2")            // "2K"
//	GeekAISize(Options{ImageSize: ImageSize4K}, "gpt-image-1")          // "2048x2048"
//	GeekAISize(Options{Quality: QualityNormal}, "gpt-image-1")          // "1024x1024"
func GeekAISize(opts Options, model string) string {
	if strings.Contains(model, "nano-banana-2") {
		return string(opts.SizeTier())
	}
	switch opts.SizeTier() {
	case ImageSize4K:
		return "2048x2048"
	case ImageSize2K:
		return "1536x1536"
	default:
		return "1024x1024"
	}
}

// GeekAIQuality maps the quality preset to GeekAI's quality names.
func GeekAIQuality(q Quality) string {
	if q == Quality2K {
		return "high"
	}
	return "medium"
}

var (
	pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegPrefix   = []byte{0xFF, 0xD8, 0xFF}
)

// DetectImageExtension inspects the leading bytes of data and returns
// ".png", ".jpg", ".webp" or ".gif", or "" when the format is not recognized.
//
// This is a pure function with no dependencies.
func DetectImageExtension(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return ".png"
	case bytes.HasPrefix(data, jpegPrefix):
		return ".jpg"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return ".webp"
	case len(data) >= 6 && (string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a"):
		return ".gif"
	}
	return ""
}

// WithDetectedExtension returns path with its extension corrected to match
// the detected format of data. changed is true only when an existing
// extension was replaced; a missing extension is appended silently and an
// unrecognized format leaves path untouched. ".jpeg" is treated as ".jpg".
//
// Example:
//
//	WithDetectedExtension("/out/cat.jpg", pngBytes)  // "/out/cat.png", true
//	WithDetectedExtension("/out/cat.jpeg", jpgBytes) // "/out/cat.jpeg", false
//	WithDetectedExtension("/out/cat", pngBytes)      // "/out/cat.png", false
func WithDetectedExtension(path string, data []byte) (corrected string, changed bool) {
	detected := DetectImageExtension(data)
	if detected == "" {
		return path, false
	}

	ext := filepath.Ext(path)
	if ext == "" {
		return path + detected, false
	}

	current := strings.ToLower(ext)
	if current == ".jpeg" {
		current = ".jpg"
	}
	if current == detected {
		return path, false
	}

	return strings.TrimSuffix(path, ext) + detected, true
}

// NormalizeOutputPath resolves p to an absolute path and appends ".png"
// when it has no extension.
func NormalizeOutputPath(p string) (string, error) {
	full, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if filepath.Ext(full) == "" {
		return full + ".png", nil
	}
	return full, nil
}

// TruncateRunes returns at most n runes of s.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
