// Package audit provides structured logging for task dispatch events.
// Log entries follow a key=value format suitable for parsing and analysis.
package audit

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// EventType represents the type of dispatch event.
type EventType string

// Event types for task submissions.
const (
	EventReceived  EventType = "RECEIVED"
	EventRejected  EventType = "REJECTED"
	EventCompleted EventType = "COMPLETED"
)

// EventFileRead records a sandboxed file served through the read endpoint.
const EventFileRead EventType = "READ"

// Event represents a dispatch audit log entry.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Type is the event type (RECEIVED, REJECTED, COMPLETED, READ).
	Type EventType

	// RequestID correlates the entries belonging to one HTTP request.
	RequestID string

	// Task is the submitted task text.
	Task string

	// Kind is the handler the task routed to (for COMPLETED events).
	Kind string

	// Status is the task outcome (for COMPLETED events).
	Status string

	// Reason is the rejection reason (for REJECTED events).
	Reason string

	// Path is the file served (for READ events).
	Path string

	// Duration is the handler execution time (for COMPLETED events).
	Duration time.Duration
}

// Format returns the log entry as a formatted string.
// Format: 2024-01-15T14:32:05Z TASK RECEIVED request=9f0e... task="..."
func (e *Event) Format() string {
	var b strings.Builder

	b.WriteString(e.Timestamp.UTC().Format(time.RFC3339))
	if e.Type == EventFileRead {
		b.WriteString(" FILE ")
	} else {
		b.WriteString(" TASK ")
	}
	b.WriteString(string(e.Type))

	b.WriteString(" request=")
	b.WriteString(e.RequestID)

	if e.Type == EventFileRead {
		b.WriteString(" path=")
		b.WriteString(quoteValue(e.Path))
	} else {
		b.WriteString(" task=")
		b.WriteString(quoteValue(e.Task))
	}

	switch e.Type {
	case EventRejected:
		writeOptionalField(&b, "reason", e.Reason)
	case EventCompleted:
		b.WriteString(" kind=")
		b.WriteString(e.Kind)
		b.WriteString(" status=")
		b.WriteString(e.Status)
		b.WriteString(" duration=")
		b.WriteString(formatDuration(e.Duration))
	}

	return b.String()
}

// writeOptionalField appends " key=quoted_value" to the builder if value is non-empty.
func writeOptionalField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(quoteValue(value))
}

// quoteValue returns a quoted string value.
// Values are always quoted for consistency and to handle spaces/special chars.
func quoteValue(s string) string {
	return fmt.Sprintf("%q", s)
}

// formatDuration formats a duration as a human-readable string (e.g., "2.3s", "1m30s").
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// Logger writes audit events to an io.Writer.
type Logger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogger creates a new audit logger that writes to the given writer.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Log writes an event to the audit log.
// A nil logger or writer is a no-op, so callers never branch.
func (l *Logger) Log(e *Event) error {
	if l == nil || l.w == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	line := e.Format() + "\n"
	if _, err := l.w.Write([]byte(line)); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

// LogReceived logs a TASK RECEIVED event.
func (l *Logger) LogReceived(requestID, taskText string) error {
	return l.Log(&Event{
		Timestamp: time.Now(),
		Type:      EventReceived,
		RequestID: requestID,
		Task:      taskText,
	})
}

// LogRejected logs a TASK REJECTED event.
func (l *Logger) LogRejected(requestID, taskText, reason string) error {
	return l.Log(&Event{
		Timestamp: time.Now(),
		Type:      EventRejected,
		RequestID: requestID,
		Task:      taskText,
		Reason:    reason,
	})
}

// LogCompleted logs a TASK COMPLETED event.
func (l *Logger) LogCompleted(requestID, taskText, kind, status string, duration time.Duration) error {
	return l.Log(&Event{
		Timestamp: time.Now(),
		Type:      EventCompleted,
		RequestID: requestID,
		Task:      taskText,
		Kind:      kind,
		Status:    status,
		Duration:  duration,
	})
}

// LogFileRead logs a FILE READ event.
func (l *Logger) LogFileRead(requestID, path string) error {
	return l.Log(&Event{
		Timestamp: time.Now(),
		Type:      EventFileRead,
		RequestID: requestID,
		Path:      path,
	})
}
