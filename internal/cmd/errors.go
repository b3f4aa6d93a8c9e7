package cmd

import "fmt"

// ExitCodeError carries a specific process exit code through the error
// path to main. Commands return it when the conventional exit code 1
// is not precise enough, e.g. "agentd task" distinguishing a rejected
// task from a failed one.
type ExitCodeError struct {
	Code int
	Err  error
}

// Error returns the underlying error's message.
func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap exposes the underlying error.
func (e *ExitCodeError) Unwrap() error {
	return e.Err
}
