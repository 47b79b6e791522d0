// Package logging builds the structured logger shared by the CLI and the pipeline.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level. An empty level means info.
func New(w io.Writer, level string) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl := log.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "ideaeval",
	})
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
