package agent

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
)

// renderMarkdown converts the markdown file named in the task (default
// document.md) to HTML, written beside it as <name>.html.
func (a *Agent) renderMarkdown(ctx context.Context, taskText string) (string, error) {
	name := firstFileToken(taskText, ".md")
	if name == "" {
		name = "document.md"
	}
	src, err := a.resolveInput(name)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(data, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	dst := strings.TrimSuffix(src, ".md") + ".html"
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write HTML: %w", err)
	}
	return "Converted " + src + " to HTML", nil
}
