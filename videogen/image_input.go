package videogen

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImageInput turns the --image value into the request field: http(s) URLs are
// passed through and local files become a base64 data URL.
func ImageInput(ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}

	full, err := filepath.Abs(ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve image path: %w", err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(full)), ".")
	if ext == "jpg" {
		ext = "jpeg"
	}
	return "data:image/" + ext + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
