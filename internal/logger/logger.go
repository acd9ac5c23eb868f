package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel converts a level name ("debug", "info", ...) to a log level.
// An empty name means info.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(name)
}

// ParseCompleted logs a finished parse of one document
func (l *Logger) ParseCompleted(file string, lines, sections int, duration time.Duration) {
	l.Debug("parse completed",
		"file", file,
		"lines", lines,
		"sections", sections,
		"duration", duration.Round(time.Microsecond))
}

// Recovered logs a structural irregularity the parser worked around
func (l *Logger) Recovered(line int, reason string) {
	l.Debug("recovered",
		"line", line,
		"reason", reason)
}

// FileIndexed logs a file added to the ID index
func (l *Logger) FileIndexed(file string, ids int) {
	l.Info("file indexed",
		"file", file,
		"ids", ids)
}

// IndexCompleted logs the completion of an index build
func (l *Logger) IndexCompleted(files, reused, errors int, duration time.Duration) {
	l.Info("index completed",
		"files", files,
		"reused", reused,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(notesDir string, keywords []string, maxDepth int) {
	l.Debug("config loaded",
		"notes_dir", notesDir,
		"todo_keywords", keywords,
		"max_depth", maxDepth)
}

// Skipped logs when a file or value is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("skipped",
		"file", file,
		"reason", reason)
}
