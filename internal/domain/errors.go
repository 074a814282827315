package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrManifestRead indicates the manifest could not be read
	ErrManifestRead = errors.New("manifest read failed")

	// ErrSourceRead indicates a referenced file exists but could not be read
	ErrSourceRead = errors.New("source read failed")

	// ErrWriteFailed indicates writing output failed
	ErrWriteFailed = errors.New("write failed")
)

// ManifestReadError represents a failure to read the manifest file.
// It aborts the run before any output is produced.
type ManifestReadError struct {
	Path string
	Err  error
}

func (e *ManifestReadError) Error() string {
	return fmt.Sprintf("cannot read manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestReadError) Unwrap() []error {
	return []error{ErrManifestRead, e.Err}
}

// NewManifestReadError creates a new ManifestReadError
func NewManifestReadError(path string, err error) *ManifestReadError {
	return &ManifestReadError{Path: path, Err: err}
}

// SourceReadError represents a referenced file that exists but cannot be read
type SourceReadError struct {
	Path    string
	Concept string
	Err     error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("cannot read %s for concept %q: %v", e.Path, e.Concept, e.Err)
}

func (e *SourceReadError) Unwrap() []error {
	return []error{ErrSourceRead, e.Err}
}

// NewSourceReadError creates a new SourceReadError
func NewSourceReadError(path, concept string, err error) *SourceReadError {
	return &SourceReadError{Path: path, Concept: concept, Err: err}
}

// OutputWriteError represents a failure writing the combined document
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}

// NewOutputWriteError creates a new OutputWriteError
func NewOutputWriteError(path string, err error) *OutputWriteError {
	return &OutputWriteError{Path: path, Err: err}
}

// IsFatal reports whether err must abort a combine run
func IsFatal(err error) bool {
	return errors.Is(err, ErrManifestRead) ||
		errors.Is(err, ErrSourceRead) ||
		errors.Is(err, ErrWriteFailed)
}
