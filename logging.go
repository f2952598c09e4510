package wheelext

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger returns the logger used by the CLI: stderr, prefixed, without
// timestamps. Verbose lowers the level to debug.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "extpack",
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// orDiscard returns logger, or a logger writing nowhere when it is nil.
func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}
