package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dwarakesh2005/llm-automation-agent/internal/shell"
)

// readmeNote is appended to the cloned repository's README before the
// commit.
const readmeNote = "\nUpdated by LLM Agent"

// cloneAndCommit clones the repository named in the task into git_repo
// under the sandbox, appends a note to its README.md, and commits the
// change with the extracted message.
func (a *Agent) cloneAndCommit(ctx context.Context, taskText string) (string, error) {
	var params struct {
		URL           string `json:"url"`
		CommitMessage string `json:"commit_message"`
	}
	prompt := "Extract the git repository URL and commit message from: " + taskText
	if err := a.llm.ExtractJSON(ctx, prompt, &params); err != nil {
		return "", err
	}
	if params.URL == "" {
		return "", errors.New("task does not name a git repository URL")
	}
	if params.CommitMessage == "" {
		params.CommitMessage = "Updated by LLM Agent"
	}

	repoDir := a.box.Path("git_repo")
	if _, err := shell.Run("git", "clone", params.URL, repoDir); err != nil {
		return "", fmt.Errorf("clone %s: %w", params.URL, err)
	}

	readme := filepath.Join(repoDir, "README.md")
	f, err := os.OpenFile(readme, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open README.md: %w", err)
	}
	if _, err := f.WriteString(readmeNote); err != nil {
		f.Close()
		return "", fmt.Errorf("append to README.md: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close README.md: %w", err)
	}

	if _, err := shell.RunIn(repoDir, "git", "add", "README.md"); err != nil {
		return "", fmt.Errorf("git add: %w", err)
	}
	if _, err := shell.RunIn(repoDir, "git", "commit", "-m", params.CommitMessage); err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}
	return "Git operations completed", nil
}
