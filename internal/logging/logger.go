// Package logging configures the charmbracelet/log loggers used by quickfix
// and carries them through contexts.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

const (
	prefix          = "quickfix"
	debugTimeFormat = "15:04:05.000"
)

//nolint:gochecknoglobals // process-wide fallback for code without a context
var defaultLogger atomic.Pointer[log.Logger]

// ParseLevel maps a level name to a log.Level, case-insensitively.
// "warning" is accepted for "warn"; anything unknown yields InfoLevel.
func ParseLevel(level string) log.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	parsed, err := log.ParseLevel(name)
	if err != nil || parsed > log.ErrorLevel {
		return log.InfoLevel
	}
	return parsed
}

// New returns a logger writing to stderr at the given level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a logger writing to w at the given level. At debug
// level entries carry millisecond timestamps, which makes slow rules visible.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	lvl := ParseLevel(level)
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: lvl == log.DebugLevel,
		TimeFormat:      debugTimeFormat,
	})
}

// ForSession tags every entry of a child logger with sessionID.
func ForSession(logger *log.Logger, sessionID string) *log.Logger {
	return logger.With(FieldSession, sessionID)
}

// Default returns the process-wide logger, creating an info-level stderr
// logger on first use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger. Nil restores the lazily
// created stderr logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
