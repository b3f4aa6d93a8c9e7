// Package shell provides CLI wrapper functions for the external tools
// handlers invoke: git, prettier, python, and the POSIX shell used by
// the installer pipeline. It relies solely on binaries found in PATH.
package shell

import (
	"bytes"
	"fmt"
	"os/exec"
)

// CommandError represents a failed command with captured stderr output.
type CommandError struct {
	Command string
	Args    []string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	name := e.Command
	if len(e.Args) > 0 {
		name += " " + e.Args[0]
	}
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v\nstderr: %s", name, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", name, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Run executes a command and returns stdout.
// On error, returns a CommandError containing stderr for diagnostics.
func Run(name string, args ...string) (string, error) {
	return RunIn("", name, args...)
}

// RunIn is Run with an explicit working directory. An empty dir runs
// in the process working directory.
func RunIn(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Command: name,
			Args:    args,
			Stderr:  stderr.String(),
			Err:     err,
		}
	}

	return stdout.String(), nil
}

// RunScript executes a shell pipeline via `sh -c`.
func RunScript(script string) (string, error) {
	return Run("sh", "-c", script)
}

// RunScriptIn is RunScript with an explicit working directory.
func RunScriptIn(dir, script string) (string, error) {
	return RunIn(dir, "sh", "-c", script)
}

// Available reports whether a binary can be found in PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
