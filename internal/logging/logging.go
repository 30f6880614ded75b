// ABOUTME: Leveled logger with colour-coded prefixes for flasker.
// ABOUTME: Writes to a log file so the terminal stays free for the interactive client.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger writes leveled lines to a single destination.
// A nil *Logger discards everything.
type Logger struct {
	level  Level
	closer io.Closer
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	err    *log.Logger
}

// New creates a logger writing to w at the given minimum level.
func New(w io.Writer, level Level) *Logger {
	flags := log.Ldate | log.Ltime
	return &Logger{
		level: level,
		debug: log.New(w, color.CyanString("[DEBUG] "), flags),
		info:  log.New(w, color.GreenString("[INFO] "), flags),
		warn:  log.New(w, color.YellowString("[WARN] "), flags),
		err:   log.New(w, color.RedString("[ERROR] "), flags),
	}
}

// Open creates a logger appending to the file at path, creating parent directories.
func Open(path string, level Level) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := New(file, level)
	l.closer = file
	return l, nil
}

// Nop returns a logger that discards all output.
func Nop() *Logger {
	return New(io.Discard, LevelError+1)
}

// ParseLevel maps a config string to a Level. Empty means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.logf(LevelWarn, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	var target *log.Logger
	switch level {
	case LevelDebug:
		target = l.debug
	case LevelInfo:
		target = l.info
	case LevelWarn:
		target = l.warn
	default:
		target = l.err
	}
	target.Printf(format, args...)
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
