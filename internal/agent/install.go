package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/dwarakesh2005/llm-automation-agent/internal/shell"
)

// datagenURL is where the data generation script is fetched from.
const datagenURL = "https://raw.githubusercontent.com/sanand0/tools-in-data-science-public/tds-2025-01/project-1/datagen.py"

// uvInstallScript bootstraps the uv package manager.
const uvInstallScript = "curl -LsSf https://astral.sh/uv/install.sh | sh"

// installTools installs uv, downloads datagen.py into the sandbox, and
// runs it with the configured email. The script runs with the sandbox
// root as working directory so its outputs land inside it.
func (a *Agent) installTools(ctx context.Context, taskText string) (string, error) {
	if _, err := shell.RunScript(uvInstallScript); err != nil {
		return "", fmt.Errorf("install uv: %w", err)
	}

	script, err := fetchBody(ctx, datagenURL)
	if err != nil {
		return "", fmt.Errorf("download datagen.py: %w", err)
	}
	scriptPath := a.box.Path("datagen.py")
	if err := os.WriteFile(scriptPath, script, 0o644); err != nil {
		return "", fmt.Errorf("write datagen.py: %w", err)
	}

	if _, err := shell.RunIn(a.box.Root(), "python", scriptPath, a.email); err != nil {
		return "", fmt.Errorf("run datagen.py: %w", err)
	}
	return "UV installed and datagen.py executed", nil
}
