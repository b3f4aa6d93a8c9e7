package agent

import (
	"context"
	"fmt"

	"github.com/dwarakesh2005/llm-automation-agent/internal/shell"
)

// formatMarkdown formats format.md in place with prettier.
func (a *Agent) formatMarkdown(ctx context.Context, taskText string) (string, error) {
	path := a.box.Path("format.md")
	if _, err := shell.Run("prettier", "--write", path); err != nil {
		return "", fmt.Errorf("run prettier: %w", err)
	}
	return "Formatted " + path, nil
}
