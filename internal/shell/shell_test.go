package shell

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_Success(t *testing.T) {
	out, err := Run("sh", "-c", "echo hello")
	if err != nil {
		t.Skipf("sh not available: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("Run() = %q, want %q", out, "hello")
	}
}

func TestRun_CommandNotFound(t *testing.T) {
	_, err := Run("definitely-not-a-real-binary-405bd")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %T", err)
	}
	if cmdErr.Command != "definitely-not-a-real-binary-405bd" {
		t.Errorf("Command = %q, want the binary name", cmdErr.Command)
	}
}

func TestRun_ExitStatusCapturesStderr(t *testing.T) {
	if !Available("sh") {
		t.Skip("sh not available")
	}

	_, err := RunScript("echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %T", err)
	}
	if !strings.Contains(cmdErr.Stderr, "boom") {
		t.Errorf("Stderr = %q, want it to contain %q", cmdErr.Stderr, "boom")
	}
	if !strings.Contains(err.Error(), "exit status 3") {
		t.Errorf("Error() = %q, want it to mention the exit status", err.Error())
	}
}

func TestRunIn_WorkingDirectory(t *testing.T) {
	if !Available("sh") {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	if _, err := RunScriptIn(dir, "echo marker > out.txt"); err != nil {
		t.Fatalf("RunScriptIn() error = %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.TrimSpace(string(content)) != "marker" {
		t.Errorf("out.txt = %q, want %q", content, "marker")
	}
}

func TestCommandError_Error(t *testing.T) {
	tests := []struct {
		name     string
		cmdErr   CommandError
		contains []string
	}{
		{
			name: "with stderr",
			cmdErr: CommandError{
				Command: "git",
				Args:    []string{"clone", "https://example.com/repo.git"},
				Stderr:  "fatal: repository not found",
				Err:     errors.New("exit status 128"),
			},
			contains: []string{"git clone failed", "exit status 128", "stderr:", "repository not found"},
		},
		{
			name: "without stderr",
			cmdErr: CommandError{
				Command: "prettier",
				Args:    []string{"--write", "/data/format.md"},
				Stderr:  "",
				Err:     errors.New("exit status 1"),
			},
			contains: []string{"prettier --write failed", "exit status 1"},
		},
		{
			name: "no args",
			cmdErr: CommandError{
				Command: "python",
				Err:     errors.New("executable file not found"),
			},
			contains: []string{"python failed", "executable file not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.cmdErr.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q should contain %q", msg, s)
				}
			}
		})
	}
}

func TestCommandError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	cmdErr := &CommandError{
		Command: "git",
		Err:     underlying,
	}

	if !errors.Is(cmdErr, underlying) {
		t.Error("CommandError should unwrap to underlying error")
	}
}

func TestAvailable(t *testing.T) {
	if !Available("sh") {
		t.Skip("sh not available")
	}
	if Available("definitely-not-a-real-binary-405bd") {
		t.Error("Available() = true for a missing binary")
	}
}
