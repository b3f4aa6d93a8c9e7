package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// setTaskFlags points the task command's package flag state at a
// sandbox directory, restoring the old state when the test ends.
func setTaskFlags(t *testing.T, sandboxDir string) {
	t.Helper()
	old := taskFlags
	taskFlags.configPath = ""
	taskFlags.sandboxDir = sandboxDir
	taskFlags.logLevel = "error"
	taskFlags.logFile = ""
	t.Cleanup(func() { taskFlags = old })
}

func newTaskCommand() (*cobra.Command, *bytes.Buffer) {
	cmd, out := newOutputCommand()
	cmd.SetContext(context.Background())
	return cmd, out
}

func TestRunTask_RejectsDeletion(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AIPROXY_TOKEN", "test-token")
	setTaskFlags(t, t.TempDir())

	cmd, out := newTaskCommand()
	err := runTask(cmd, []string{"delete", "all", "log", "files"})

	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitCodeError, got %v", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2", exitErr.Code)
	}
	if exitErr.Error() != "File deletion not allowed" {
		t.Errorf("message = %q", exitErr.Error())
	}
	if out.Len() != 0 {
		t.Errorf("a rejected task should print nothing, got: %s", out.String())
	}
}

func TestRunTask_RequiresToken(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AIPROXY_TOKEN", "")
	setTaskFlags(t, t.TempDir())

	cmd, _ := newTaskCommand()
	err := runTask(cmd, []string{"sort", "the", "contacts"})
	if err == nil || !strings.Contains(err.Error(), "AIPROXY_TOKEN") {
		t.Fatalf("expected a credentials error, got %v", err)
	}
}

func TestRunTask_UnrecognizedTask(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AIPROXY_TOKEN", "test-token")
	setTaskFlags(t, t.TempDir())

	cmd, out := newTaskCommand()
	err := runTask(cmd, []string{"do", "something", "mysterious"})

	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitCodeError, got %v", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	if !strings.Contains(out.String(), "Task type not recognized") {
		t.Errorf("result JSON missing the failure message, got: %s", out.String())
	}
}

func TestRunTask_SortsContacts(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AIPROXY_TOKEN", "test-token")
	boxDir := t.TempDir()
	setTaskFlags(t, boxDir)

	contacts := `[{"first_name":"Zed","last_name":"Ng"},{"first_name":"Amy","last_name":"Banks"}]`
	if err := os.WriteFile(filepath.Join(boxDir, "contacts.json"), []byte(contacts), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, out := newTaskCommand()
	if err := runTask(cmd, []string{"sort", "the", "contacts", "by", "last", "name"}); err != nil {
		t.Fatalf("runTask() error = %v", err)
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if result.Status != "success" {
		t.Errorf("status = %q, want success", result.Status)
	}
	if result.Message != "Sorted 2 contacts" {
		t.Errorf("message = %q", result.Message)
	}

	sorted, err := os.ReadFile(filepath.Join(boxDir, "contacts-sorted.json"))
	if err != nil {
		t.Fatalf("contacts-sorted.json not written: %v", err)
	}
	if !strings.HasPrefix(string(sorted), `[{"first_name":"Amy"`) {
		t.Errorf("unexpected sort order: %s", sorted)
	}
}
