package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// indexMarkdown walks docs/ for markdown files and writes docs/index.json
// mapping each file's docs-relative path to its first H1 title. Files
// without an H1 are skipped.
func (a *Agent) indexMarkdown(ctx context.Context, taskText string) (string, error) {
	docsDir := a.box.Path("docs")
	index := map[string]string{}

	err := filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		title, ok, err := firstH1(path)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(docsDir, path)
		if err != nil {
			return err
		}
		index[filepath.ToSlash(rel)] = title
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk docs: %w", err)
	}

	data, err := json.Marshal(index)
	if err != nil {
		return "", fmt.Errorf("encode index: %w", err)
	}
	if err := os.WriteFile(a.box.Path("docs", "index.json"), data, 0o644); err != nil {
		return "", fmt.Errorf("write index.json: %w", err)
	}
	return fmt.Sprintf("Indexed %d markdown titles", len(index)), nil
}

// firstH1 returns the text of the first top-level heading in a markdown
// file, reported as found=false when the file has none.
func firstH1(path string) (title string, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# ")), true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}
	return "", false, nil
}
