package utils

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescCombining = "Combining"
	DescChecking  = "Checking"
)

// NewProgressBar creates a consistently styled progress bar on stderr.
//
// Parameters:
//   - total: Total number of items. Use -1 for unknown totals (spinner mode).
//   - description: Text shown before the bar (e.g., DescCombining).
//
// Example:
//
//	bar := utils.NewProgressBar(len(m.Active()), utils.DescCombining)
//	defer bar.Finish()
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	return NewProgressBarTo(os.Stderr, total, description)
}

// NewProgressBarTo is NewProgressBar with an explicit writer
func NewProgressBarTo(w io.Writer, total int, description string) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
