package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dwarakesh2005/llm-automation-agent/internal/sandbox"
)

// NewSandbox creates a sandbox rooted in a fresh temp directory.
func NewSandbox(t *testing.T) *sandbox.Dir {
	t.Helper()
	box, err := sandbox.New(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("create sandbox: %v", err)
	}
	return box
}

// WriteFile writes content to a file under the sandbox root, creating
// parent directories as needed, and returns the absolute path.
func WriteFile(t *testing.T, box *sandbox.Dir, name, content string) string {
	t.Helper()
	path := box.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// ReadFile reads a file under the sandbox root and returns its content.
func ReadFile(t *testing.T, box *sandbox.Dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(box.Path(name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}
