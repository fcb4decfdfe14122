// Package batch runs many image generations from a task file with bounded
// concurrency and produces an ordered report.
//
// The package is split the same way as imagegen:
//   - task.go, source.go: raw task records and file loading
//   - resolver.go: validation and defaulting against the CLI values
//   - runner.go: the worker pool
//   - report.go: JSON and text rendering, exit code
package batch

import (
	"fmt"

	"mediaskills/imagegen"
)

// RawTask is one record of a batch file, before defaults are applied.
//
// Quality and ImageSize are pointers so that an absent key can be told apart
// from an explicit empty string.
type RawTask struct {
	Prompt      string   `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	PromptFile  string   `json:"promptFile,omitempty" yaml:"promptFile,omitempty"`
	Image       string   `json:"image,omitempty" yaml:"image,omitempty"`
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`
	AspectRatio string   `json:"ar,omitempty" yaml:"ar,omitempty"`
	Quality     *string  `json:"quality,omitempty" yaml:"quality,omitempty"`
	ImageSize   *string  `json:"imageSize,omitempty" yaml:"imageSize,omitempty"`
	Ref         []string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// ResolvedTask is a validated task ready to run. Index is 1-based.
type ResolvedTask struct {
	Index      int
	Prompt     string
	Model      string
	OutputPath string
	Options    imagegen.Options
}

// Request converts the task to an imagegen request.
func (t ResolvedTask) Request() imagegen.Request {
	return imagegen.Request{
		Prompt:     t.Prompt,
		Model:      t.Model,
		OutputPath: t.OutputPath,
		Options:    t.Options,
	}
}

// ValidationError is a batch failure detected before any task runs.
// TaskNumber is 1-based; 0 marks a file-level problem.
type ValidationError struct {
	TaskNumber int
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.TaskNumber > 0 {
		return fmt.Sprintf("Batch task #%d %s", e.TaskNumber, e.Reason)
	}
	return e.Reason
}
