// Package logging builds the structured logger shared by the command line and
// the terminal UI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when the configured level is empty or unknown.
const DefaultLevel = log.WarnLevel

// New returns a logger writing to stderr at the named level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a logger writing to w at the named level.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "crosscal",
		Level:           ParseLevel(level),
		ReportTimestamp: false,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return NewWithWriter(io.Discard, "fatal")
}

// ParseLevel maps a config string to a level, falling back to DefaultLevel.
func ParseLevel(level string) log.Level {
	level = strings.TrimSpace(level)
	if level == "" {
		return DefaultLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return DefaultLevel
	}
	return lvl
}
