package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

func New(w io.Writer, level string) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	parsed, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true, Prefix: "nowplayin"})
	logger.SetLevel(parsed)
	return logger, nil
}

func ParseLevel(level string) (log.Level, error) {
	if level == "" {
		return log.InfoLevel, nil
	}

	parsed, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return parsed, nil
}

// Discard is a logger for callers that did not supply one.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
