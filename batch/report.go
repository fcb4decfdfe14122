package batch

import (
	"encoding/json"
	"fmt"
	"io"

	"mediaskills/core"

	"github.com/fatih/color"
)

// ReportProvider is the provider label written into batch reports.
const ReportProvider = "banana-gemini"

// Outcome is the result of one task. Image is the written path on success
// and the requested path on failure.
type Outcome struct {
	Index int    `json:"index"`
	Image string `json:"image"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Report summarizes a batch run.
type Report struct {
	Provider string    `json:"provider"`
	Total    int       `json:"total"`
	Success  int       `json:"success"`
	Failed   int       `json:"failed"`
	Results  []Outcome `json:"results"`
}

// NewReport builds a Report from outcomes already sorted by index.
func NewReport(outcomes []Outcome) *Report {
	report := &Report{
		Provider: ReportProvider,
		Total:    len(outcomes),
		Results:  outcomes,
	}
	if report.Results == nil {
		report.Results = []Outcome{}
	}
	for _, o := range outcomes {
		if o.OK {
			report.Success++
		} else {
			report.Failed++
		}
	}
	return report
}

// WriteJSON writes the report as indented JSON followed by a newline.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteText writes one line per task, green for success and red for failure.
func (r *Report) WriteText(w io.Writer) {
	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed)

	for _, o := range r.Results {
		if o.OK {
			okColor.Fprintf(w, "[OK][%d]", o.Index)
			fmt.Fprintf(w, " %s\n", o.Image)
			continue
		}
		failColor.Fprintf(w, "[FAIL][%d]", o.Index)
		fmt.Fprintf(w, " %s :: %s\n", o.Image, o.Error)
	}
}

// ExitCode is 0 when every task succeeded and 1 otherwise.
func (r *Report) ExitCode() int {
	if r.Failed > 0 {
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}
