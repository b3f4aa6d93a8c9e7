// Package task defines the task model for agentd: the uniform result
// record every handler produces and the keyword classifier that maps
// free-text task descriptions to handler identifiers.
package task

import "fmt"

// Status is the outcome of a task execution.
type Status string

const (
	// StatusSuccess indicates the handler completed its side effect.
	StatusSuccess Status = "success"
	// StatusError indicates the handler failed; Message carries the
	// diagnostic text.
	StatusError Status = "error"
)

// Result is the uniform outcome record returned by every handler.
// It is created once and never mutated afterward.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Success returns a success result with a formatted message.
func Success(format string, args ...any) Result {
	return Result{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

// Errorf returns an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}
