package output

import (
	"os"

	"github.com/quantmind-br/conceptmerge/internal/domain"
	"github.com/quantmind-br/conceptmerge/internal/utils"
)

// Writer writes the combined document to disk
type Writer struct {
	dryRun bool
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	DryRun bool
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	return &Writer{dryRun: opts.DryRun}
}

// DryRun reports whether writes are suppressed
func (w *Writer) DryRun() bool {
	return w.dryRun
}

// Write replaces whatever is at path with content. Parent directories are
// created as needed. Failures are returned as *domain.OutputWriteError.
func (w *Writer) Write(path string, content []byte) error {
	if w.dryRun {
		return nil
	}

	if err := utils.EnsureDir(path); err != nil {
		return domain.NewOutputWriteError(path, err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return domain.NewOutputWriteError(path, err)
	}

	return nil
}
