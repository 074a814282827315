package domain

import "fmt"

// Severity classifies a diagnostic event
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic codes
const (
	CodeFileNotFound  = "file-not-found"
	CodeLineSkipped   = "line-skipped"
	CodeEmptyConcept  = "empty-concept"
	CodeBrokenAnchor  = "broken-anchor"
	CodeOutputWritten = "output-written"
	CodeDryRun        = "dry-run"
)

// Diagnostic is a structured event produced during a run.
// Zero-valued optional fields are omitted from reports.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Code     string   `json:"code" yaml:"code"`
	Message  string   `json:"message" yaml:"message"`
	Concept  string   `json:"concept,omitempty" yaml:"concept,omitempty"`
	Sequence int      `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}

// Diagnostics is an ordered list of diagnostic events
type Diagnostics []Diagnostic

// Add appends a diagnostic
func (ds *Diagnostics) Add(d Diagnostic) {
	*ds = append(*ds, d)
}

// Warnings returns only warning-level diagnostics
func (ds Diagnostics) Warnings() Diagnostics {
	return ds.filter(SeverityWarning)
}

// ByCode returns the diagnostics with the given code
func (ds Diagnostics) ByCode(code string) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// HasWarnings reports whether any warning or error was recorded
func (ds Diagnostics) HasWarnings() bool {
	for _, d := range ds {
		if d.Severity == SeverityWarning || d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (ds Diagnostics) filter(s Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}
