package ui

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates a Charm logger writing to w. Verbose forces debug level
// and turns on caller and timestamp reporting; otherwise level is parsed from
// the configured name, defaulting to info.
func NewLogger(w io.Writer, verbose bool, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    verbose,
		ReportTimestamp: verbose,
	})

	if verbose {
		logger.SetLevel(log.DebugLevel)
		return logger
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}
