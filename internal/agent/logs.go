package agent

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// recentLogCount is how many of the newest log files are sampled.
const recentLogCount = 10

// recentLogs writes the first line of each of the 10 most recently
// modified logs/*.log files to logs-recent.txt, newest first.
func (a *Agent) recentLogs(ctx context.Context, taskText string) (string, error) {
	matches, err := filepath.Glob(a.box.Path("logs", "*.log"))
	if err != nil {
		return "", fmt.Errorf("list log files: %w", err)
	}

	type logFile struct {
		path  string
		mtime int64
	}
	files := make([]logFile, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", m, err)
		}
		files = append(files, logFile{path: m, mtime: info.ModTime().UnixNano()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mtime > files[j].mtime })
	if len(files) > recentLogCount {
		files = files[:recentLogCount]
	}

	lines := make([]string, 0, len(files))
	for _, f := range files {
		line, err := firstLine(f.path)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}

	out := strings.Join(lines, "\n")
	if err := os.WriteFile(a.box.Path("logs-recent.txt"), []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("write logs-recent.txt: %w", err)
	}
	return fmt.Sprintf("Collected first lines from %d log files", len(files)), nil
}

// firstLine reads the first line of a file. A file without a newline
// yields its whole content; an empty file yields "".
func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return "", nil
}
