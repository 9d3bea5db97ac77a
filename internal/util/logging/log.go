package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a console logger whose level colors mark the outcome class:
// info for progress and success, warn for skips, error for failures.
func New(w io.Writer, level string, color bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    !color,
	}
	return zerolog.New(out).With().Timestamp().Logger().Level(lvl)
}
