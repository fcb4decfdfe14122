package batch

import (
	"fmt"
	"os"
	"strings"

	"mediaskills/imagegen"
)

// Defaults are the CLI values applied to tasks that leave a field unset.
type Defaults struct {
	// Model is the --model value; empty falls through to DefaultModel.
	Model string

	// DefaultModel is the primary provider's default model.
	DefaultModel string

	AspectRatio     string
	Quality         imagegen.Quality
	ImageSize       imagegen.ImageSize
	ReferenceImages []string
}

// Resolver validates raw tasks and fills in defaults.
type Resolver struct {
	defaults Defaults
	readFile func(string) ([]byte, error)
}

// NewResolver creates a Resolver that reads prompt files from disk.
func NewResolver(defaults Defaults) *Resolver {
	return &Resolver{defaults: defaults, readFile: os.ReadFile}
}

// ResolveAll resolves every task in order and stops at the first invalid one,
// so nothing runs unless the whole batch is valid.
func (r *Resolver) ResolveAll(raws []RawTask) ([]ResolvedTask, error) {
	if len(raws) == 0 {
		return nil, &ValidationError{Reason: "--batch file has no tasks"}
	}

	tasks := make([]ResolvedTask, 0, len(raws))
	for i, raw := range raws {
		task, err := r.Resolve(i+1, raw)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Resolve validates task n (1-based) and applies the defaults.
func (r *Resolver) Resolve(n int, raw RawTask) (ResolvedTask, error) {
	prompt := strings.TrimSpace(raw.Prompt)
	if prompt == "" && raw.PromptFile != "" {
		content, err := r.readFile(raw.PromptFile)
		if err != nil {
			return ResolvedTask{}, &ValidationError{
				TaskNumber: n,
				Reason:     fmt.Sprintf("cannot read promptFile %s: %v", raw.PromptFile, err),
			}
		}
		prompt = strings.TrimSpace(string(content))
	}
	if prompt == "" {
		return ResolvedTask{}, &ValidationError{TaskNumber: n, Reason: "missing prompt/promptFile"}
	}

	if raw.Image == "" {
		return ResolvedTask{}, &ValidationError{TaskNumber: n, Reason: "missing image"}
	}

	quality := r.defaults.Quality
	if raw.Quality != nil {
		quality = imagegen.Quality(*raw.Quality)
	}
	if _, err := imagegen.ParseQuality(string(quality)); err != nil {
		return ResolvedTask{}, &ValidationError{TaskNumber: n, Reason: "has invalid quality"}
	}

	size := string(r.defaults.ImageSize)
	if raw.ImageSize != nil {
		size = *raw.ImageSize
	}
	imageSize := imagegen.ImageSize(size)
	if imageSize != "" && !imageSize.Valid() {
		return ResolvedTask{}, &ValidationError{TaskNumber: n, Reason: "has invalid imageSize"}
	}

	outputPath, err := imagegen.NormalizeOutputPath(raw.Image)
	if err != nil {
		return ResolvedTask{}, &ValidationError{
			TaskNumber: n,
			Reason:     fmt.Sprintf("has invalid image path: %v", err),
		}
	}

	refs := r.defaults.ReferenceImages
	if raw.Ref != nil {
		refs = raw.Ref
	}

	return ResolvedTask{
		Index:      n,
		Prompt:     prompt,
		Model:      firstNonEmpty(raw.Model, r.defaults.Model, r.defaults.DefaultModel),
		OutputPath: outputPath,
		Options: imagegen.Options{
			AspectRatio:     firstNonEmpty(raw.AspectRatio, r.defaults.AspectRatio),
			Quality:         quality,
			ImageSize:       imageSize,
			ReferenceImages: refs,
		},
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
