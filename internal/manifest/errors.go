package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrInvalidFormat indicates a structured manifest is not valid YAML or JSON
	ErrInvalidFormat = errors.New("manifest must be valid YAML or JSON")

	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")
)
