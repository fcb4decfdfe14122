// Package imagegen generates images from text prompts through a primary
// Gemini-style provider with a GeekAI fallback, and writes them to disk.
//
// writer.go implements the Writer molecule that saves generated bytes under a
// path whose extension matches the actual image format.
//
// This molecule composes:
//   - atoms.go: WithDetectedExtension for extension correction
//   - probe.go: ProbeImage for the reported dimensions
package imagegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediaskills/logging"

	"go.uber.org/zap"
)

// SavedImage describes a file written by Writer.
type SavedImage struct {
	// Path is where the bytes were written.
	Path string

	// Requested is the path the caller asked for.
	Requested string

	// Corrected is true when the extension was replaced to match the format.
	Corrected bool

	Bytes int

	// Width, Height and Format are zero when the header could not be read.
	Width  int
	Height int
	Format string
}

// Writer persists generated images.
type Writer struct {
	logger *logging.Logger
}

// NewWriter creates a Writer. A nil logger discards the warnings.
func NewWriter(logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Writer{logger: logger.Named("writer")}
}

// Save writes data to path, creating parent directories. When the extension
// of path disagrees with the detected format the file is saved under the
// corrected extension and a warning is logged.
func (w *Writer) Save(path string, data []byte) (*SavedImage, error) {
	target, changed := WithDetectedExtension(path, data)
	if changed {
		w.logger.Warnf("Output extension %s does not match image format %s, saved as %s",
			strings.ToLower(filepath.Ext(path)), DetectImageExtension(data), target)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	saved := &SavedImage{
		Path:      target,
		Requested: path,
		Corrected: changed,
		Bytes:     len(data),
	}
	if info, err := ProbeImage(data); err == nil {
		saved.Width = info.Width
		saved.Height = info.Height
		saved.Format = info.Format
	} else {
		w.logger.Debug("could not read image header", zap.String("path", target), zap.Error(err))
	}
	return saved, nil
}
