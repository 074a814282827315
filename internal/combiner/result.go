package combiner

import (
	"time"

	"github.com/quantmind-br/conceptmerge/internal/domain"
	"github.com/quantmind-br/conceptmerge/internal/output"
)

// Section describes one rendered concept
type Section struct {
	Sequence int
	Concept  string
	Title    string
	Anchor   string
	Included []string
	Missing  []string
}

// Result is the outcome of one run
type Result struct {
	RunID        string
	ManifestPath string
	OutputPath   string
	Document     []byte
	Sections     []Section
	Diagnostics  domain.Diagnostics
	Written      bool
	StartedAt    time.Time
	Duration     time.Duration
}

// Anchors returns the index anchors in section order
func (r *Result) Anchors() []string {
	anchors := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		anchors[i] = "#" + s.Anchor
	}
	return anchors
}

// Report converts the result into a run report
func (r *Result) Report() *output.Report {
	return &output.Report{
		RunID:       r.RunID,
		GeneratedAt: r.StartedAt,
		Manifest:    r.ManifestPath,
		Output:      r.OutputPath,
		Written:     r.Written,
		Sections:    len(r.Sections),
		Warnings:    len(r.Diagnostics.Warnings()),
		Diagnostics: r.Diagnostics,
	}
}
