// Package prompt implements interactive confirmation for CLI actions
// that overwrite existing state. The interface form exists so command
// tests can inject scripted answers instead of a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// YesNoPrompter asks the user a yes/no question.
type YesNoPrompter interface {
	// PromptYesNo displays a yes/no prompt and returns the user's answer.
	// If the user presses Enter without input, defaultYes determines the
	// result.
	PromptYesNo(prompt string, defaultYes bool) (bool, error)
}

// StdinYesNoPrompter implements YesNoPrompter over a reader/writer pair,
// typically os.Stdin and the command's stdout.
type StdinYesNoPrompter struct {
	In  io.Reader
	Out io.Writer
}

// NewStdinYesNoPrompter creates a StdinYesNoPrompter that reads from r
// and writes to w.
func NewStdinYesNoPrompter(r io.Reader, w io.Writer) *StdinYesNoPrompter {
	return &StdinYesNoPrompter{In: r, Out: w}
}

// PromptYesNo writes the prompt and reads one line of input.
// "y"/"yes" answer true and "n"/"no" answer false, case-insensitively;
// an empty line (or EOF) answers defaultYes; anything else is an error.
func (p *StdinYesNoPrompter) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	_, _ = fmt.Fprint(p.Out, prompt)

	scanner := bufio.NewScanner(p.In)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to read input: %w", err)
		}
		return defaultYes, nil
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid input %q: expected y/n", strings.TrimSpace(scanner.Text()))
	}
}

// MockYesNoPrompter implements YesNoPrompter for testing, returning
// pre-configured responses and recording every call.
type MockYesNoPrompter struct {
	// Responses is a queue of answers to return for successive calls.
	Responses []bool
	// Errors is a queue of errors to return for successive calls.
	// A non-nil entry is returned instead of the response.
	Errors []error
	// Calls records all calls made to PromptYesNo for verification.
	Calls []MockYesNoCall

	callIndex int
}

// MockYesNoCall records a single call to PromptYesNo.
type MockYesNoCall struct {
	Prompt     string
	DefaultYes bool
}

// NewMockYesNoPrompter creates a MockYesNoPrompter with the given responses.
func NewMockYesNoPrompter(responses ...bool) *MockYesNoPrompter {
	return &MockYesNoPrompter{Responses: responses}
}

// PromptYesNo returns the next pre-configured response or error.
// Once the queue is exhausted it returns defaultYes.
func (m *MockYesNoPrompter) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	m.Calls = append(m.Calls, MockYesNoCall{Prompt: prompt, DefaultYes: defaultYes})

	i := m.callIndex
	m.callIndex++

	if i < len(m.Errors) && m.Errors[i] != nil {
		return false, m.Errors[i]
	}
	if i < len(m.Responses) {
		return m.Responses[i], nil
	}
	return defaultYes, nil
}
