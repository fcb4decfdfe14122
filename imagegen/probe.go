package imagegen

import (
	"bytes"
	"fmt"
	"image"

	// Register decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ImageInfo is the header information of an encoded image.
type ImageInfo struct {
	Width  int
	Height int
	Format string
}

// ProbeImage reads the dimensions and format from the image header without
// decoding the pixels.
func ProbeImage(data []byte) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("imagegen: unrecognized image data: %w", err)
	}
	return ImageInfo{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
