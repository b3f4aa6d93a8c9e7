// Package sandbox confines handler file access to a single root
// directory. Every path a handler reads or writes must resolve to the
// root or a descendant of it.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a canonicalized sandbox root.
type Dir struct {
	root string
}

// New canonicalizes root and ensures the directory exists.
func New(root string) (*Dir, error) {
	if root == "" {
		return nil, fmt.Errorf("sandbox root must not be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create sandbox root %q: %w", abs, err)
	}
	return &Dir{root: abs}, nil
}

// Root returns the canonical absolute sandbox root.
func (d *Dir) Root() string {
	return d.root
}

// Valid reports whether path resolves to the sandbox root or a
// descendant of it. Canonicalization resolves "." and ".." segments
// before comparison, and the descendant test is segment-aware, so a
// sibling directory sharing the root as a string prefix (/data2 vs
// /data) does not pass. Any resolution failure is treated as invalid,
// never as an error.
func (d *Dir) Valid(path string) bool {
	if path == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == d.root || strings.HasPrefix(abs, d.root+string(filepath.Separator))
}

// Resolve returns the canonical absolute form of path, or an error
// when the path falls outside the sandbox.
func (d *Dir) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	if abs != d.root && !strings.HasPrefix(abs, d.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the sandbox root %s", path, d.root)
	}
	return abs, nil
}

// Path joins the given elements under the sandbox root. It is used
// for the fixed artifact names handlers read and write.
func (d *Dir) Path(elem ...string) string {
	return filepath.Join(append([]string{d.root}, elem...)...)
}
