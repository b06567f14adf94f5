package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Level defines the logging verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// String returns the level tag used in log lines.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel converts a string to a Level. Unknown strings map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger appends timestamp-prefixed lines to a process-lifetime log file.
// Write failures are swallowed: logging must never be the reason the
// program crashes. All methods are safe on a nil receiver.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	min  Level
}

// Open truncates and opens the log file at path.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	l := &Logger{file: f, min: LevelDebug}
	l.write(LevelInfo, "Logging system initialized.")
	return l, nil
}

// SetLevel drops entries below min from the log.
func (l *Logger) SetLevel(min Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.min = min
	l.mu.Unlock()
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, format, args...)
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

// Warningf logs a warning message.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.write(LevelWarning, format, args...)
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

func (l *Logger) write(level Level, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || level < l.min {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	// Errors are deliberately ignored here.
	fmt.Fprintf(l.file, "[%s] [%s] %s\n", timestamp, level, fmt.Sprintf(format, args...))
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.write(LevelInfo, "Logging system shutting down.")
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
