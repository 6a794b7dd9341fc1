// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExportTarget identifies one of the per-page output artifact kinds.
type ExportTarget string

const (
	// TargetMarkdown is the layout-based markdown extraction, written to md/.
	TargetMarkdown ExportTarget = "md"
	// TargetColorImage is the full-color page raster, written to png/.
	TargetColorImage ExportTarget = "png"
	// TargetGrayscaleImage is the grayscale contrast-enhanced raster,
	// derived from the color raster and written to png_bw/.
	TargetGrayscaleImage ExportTarget = "png_bw"
)

// PageStatus is the outcome of one (page, target) export attempt.
type PageStatus string

const (
	PageDone   PageStatus = "done"
	PageFailed PageStatus = "failed"
)

// PageResult records the outcome of producing one artifact for one page.
// Page is zero-indexed; Path is set only on success; Err carries the
// failure detail otherwise.
type PageResult struct {
	Page   int          `json:"page" yaml:"page"`
	Target ExportTarget `json:"target" yaml:"target"`
	Status PageStatus   `json:"status" yaml:"status"`
	Path   string       `json:"path,omitempty" yaml:"path,omitempty"`
	Err    string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// TargetResult aggregates page outcomes for one export target.
type TargetResult struct {
	Target    ExportTarget `json:"target" yaml:"target"`
	Dir       string       `json:"dir" yaml:"dir"`
	Attempted int          `json:"attempted" yaml:"attempted"`
	Succeeded int          `json:"succeeded" yaml:"succeeded"`
	Failed    int          `json:"failed" yaml:"failed"`
}

// OK reports whether the target ran over a non-empty selection without failures.
func (t TargetResult) OK() bool {
	return t.Attempted > 0 && t.Failed == 0
}

// RunResult summarizes one export run across all selected pages and targets.
// It exists only for the duration of one invocation; the run ledger keeps a
// condensed record of it.
type RunResult struct {
	Source   string    `json:"source" yaml:"source"`
	BaseDir  string    `json:"base_dir" yaml:"base_dir"`
	DPI      int       `json:"dpi" yaml:"dpi"`
	Contrast float64   `json:"contrast" yaml:"contrast"`
	Started  time.Time `json:"started" yaml:"started"`

	// Pages is the selected page set, zero-indexed, ascending.
	Pages []int `json:"pages" yaml:"pages"`

	// Targets holds per-target summaries in the order processed.
	Targets []TargetResult `json:"targets" yaml:"targets"`

	// Results holds the per-(page, target) outcomes in processing order.
	Results []PageResult `json:"results,omitempty" yaml:"results,omitempty"`
}

// Attempted returns the total number of (page, target) attempts.
func (r *RunResult) Attempted() int {
	n := 0
	for _, t := range r.Targets {
		n += t.Attempted
	}
	return n
}

// Succeeded returns the total number of successful (page, target) attempts.
func (r *RunResult) Succeeded() int {
	n := 0
	for _, t := range r.Targets {
		n += t.Succeeded
	}
	return n
}

// Failed returns the total number of failed (page, target) attempts.
func (r *RunResult) Failed() int {
	n := 0
	for _, t := range r.Targets {
		n += t.Failed
	}
	return n
}

// OK reports overall success: every requested target processed a non-empty
// page selection with zero failures.
func (r *RunResult) OK() bool {
	if len(r.Targets) == 0 {
		return false
	}
	for _, t := range r.Targets {
		if !t.OK() {
			return false
		}
	}
	return true
}
