package sandbox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestDir(t *testing.T) *Dir {
	t.Helper()
	root := filepath.Join(t.TempDir(), "data")
	d, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func TestNewCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	d, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	info, err := os.Stat(d.Root())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !info.IsDir() {
		t.Errorf("sandbox root is not a directory")
	}
}

func TestNewEmptyRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Errorf("New(\"\") expected error, got nil")
	}
}

func TestNewCleansRoot(t *testing.T) {
	tmp := t.TempDir()
	d, err := New(tmp + string(filepath.Separator))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if strings.HasSuffix(d.Root(), string(filepath.Separator)) {
		t.Errorf("Root() = %q, want no trailing separator", d.Root())
	}
}

func TestValid(t *testing.T) {
	d := newTestDir(t)
	root := d.Root()
	parent := filepath.Dir(root)

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"root itself", root, true},
		{"file under root", filepath.Join(root, "x.txt"), true},
		{"nested file", filepath.Join(root, "logs", "a.log"), true},
		{"traversal inside stays valid", root + "/sub/../x.txt", true},
		{"traversal escaping root", root + "/../outside.txt", false},
		{"parent directory", parent, false},
		{"sibling with shared prefix", root + "2/x.txt", false},
		{"sibling directory", filepath.Join(parent, "other", "x.txt"), false},
		{"system path", "/etc/passwd", false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Valid(tt.path); got != tt.expected {
				t.Errorf("Valid(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	d := newTestDir(t)

	got, err := d.Resolve(d.Root() + "/sub/../file.txt")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := filepath.Join(d.Root(), "file.txt")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolveOutside(t *testing.T) {
	d := newTestDir(t)

	tests := []string{
		"/etc/passwd",
		d.Root() + "/../escape.txt",
		d.Root() + "2/x.txt",
		"",
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			if _, err := d.Resolve(path); err == nil {
				t.Errorf("Resolve(%q) expected error, got nil", path)
			}
		})
	}
}

func TestPath(t *testing.T) {
	d := newTestDir(t)

	got := d.Path("logs", "a.log")
	want := filepath.Join(d.Root(), "logs", "a.log")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	// Joined artifact names always validate.
	if !d.Valid(d.Path("api_response.json")) {
		t.Errorf("Valid(Path(...)) = false, want true")
	}
}
