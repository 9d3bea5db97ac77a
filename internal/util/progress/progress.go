package progress

import (
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// New returns a progress bar over max steps, or nil when disabled
func New(max int, description string, enabled bool) *progressbar.ProgressBar {
	if !enabled || max <= 0 {
		return nil
	}
	return progressbar.Default(int64(max), description)
}

// Add increments the progress bar while safely handling errors.
func Add(bar *progressbar.ProgressBar, n int, logger zerolog.Logger) {
	if bar == nil || n == 0 {
		return
	}

	if err := bar.Add(n); err != nil {
		logger.Debug().Err(err).Msg("failed to update progress bar")
	}
}
