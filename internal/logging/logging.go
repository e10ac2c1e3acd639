// Package logging builds the process logger.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when neither --debug nor a settings level is given.
const DefaultLevel = log.WarnLevel

// New returns a leveled logger writing to w.
// debug forces debug level; otherwise level (from settings) is parsed and
// unknown or empty values fall back to DefaultLevel.
func New(w io.Writer, level string, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Prefix:          "gtodo",
		ReportTimestamp: debug,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// ParseLevel parses a level name, falling back to DefaultLevel.
func ParseLevel(s string) log.Level {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return DefaultLevel
	}
	return lvl
}
