// Package imagegen generates images from text prompts through a primary
// Gemini-style provider with a GeekAI fallback, and writes them to disk.
//
// options.go contains the provider-neutral generation options.
package imagegen

import (
	"strings"

	"mediaskills/core"
)

// Quality is the quality preset shared by both providers.
type Quality string

const (
	QualityNormal Quality = "normal"
	Quality2K     Quality = "2k"
)

// DefaultQuality is used when neither the CLI nor a batch task sets one.
const DefaultQuality = Quality2K

// ImageSize is an explicit output size tier.
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

// Options are the abstract generation options. Each provider translates them
// into its own request encoding.
type Options struct {
	// AspectRatio is a free-form ratio such as "16:9"; empty when unset.
	AspectRatio string

	Quality Quality

	// ImageSize overrides the quality-derived size tier; empty when unset.
	ImageSize ImageSize

	// ReferenceImages are local image paths sent inline to the primary provider.
	ReferenceImages []string
}

// SizeTier returns the explicit size, or 2K for the 2k preset and 1K otherwise.
func (o Options) SizeTier() ImageSize {
	if o.ImageSize != "" {
		return o.ImageSize
	}
	if o.Quality == Quality2K {
		return ImageSize2K
	}
	return ImageSize1K
}

// ParseQuality accepts exactly "normal" or "2k".
func ParseQuality(s string) (Quality, error) {
	switch Quality(s) {
	case QualityNormal, Quality2K:
		return Quality(s), nil
	}
	return "", core.ErrInvalidArgument("Invalid quality: %s", s)
}

// ParseImageSize upper-cases s and accepts "1K", "2K" or "4K".
func ParseImageSize(s string) (ImageSize, error) {
	upper := ImageSize(strings.ToUpper(s))
	if !upper.Valid() {
		return "", core.ErrInvalidArgument("Invalid imageSize: %s", upper)
	}
	return upper, nil
}

// Valid reports whether s is exactly one of the size tiers.
func (s ImageSize) Valid() bool {
	switch s {
	case ImageSize1K, ImageSize2K, ImageSize4K:
		return true
	}
	return false
}
