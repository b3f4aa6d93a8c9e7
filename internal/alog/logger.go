package alog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger handles leveled logging with a primary and a secondary output.
type Logger struct {
	mu     sync.Mutex
	level  Level     // minimum level to log
	out    io.Writer // receives all logs at or above level, timestamped
	errOut io.Writer // receives warn/error in short format, may be nil
}

// NewLogger creates a new logger writing to stderr at Info level.
func NewLogger() *Logger {
	return &Logger{
		level: LevelInfo,
		out:   os.Stderr,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the primary writer. Pass nil to disable.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// SetErrOutput sets the secondary writer that receives warn/error
// lines in short format. Pass nil to disable.
func (l *Logger) SetErrOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errOut = w
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// log writes a log message to the configured outputs.
func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)

	if l.out != nil {
		timestamp := time.Now().UTC().Format(time.RFC3339)
		line := fmt.Sprintf("%s [%s] %s\n", timestamp, level, msg)
		_, _ = l.out.Write([]byte(line))
	}

	if l.errOut != nil && level >= LevelWarn {
		errLine := fmt.Sprintf("[%s] %s\n", level, msg)
		_, _ = l.errOut.Write([]byte(errLine))
	}
}

// OpenLogFile opens a log file for appending, creating parent directories
// if needed.
func OpenLogFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return f, nil
}
