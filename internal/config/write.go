package config

import (
	"errors"
	"fmt"
	"os"
)

// ErrExists is returned by WriteDefault when the configuration file already
// exists and overwrite was not requested.
var ErrExists = errors.New("config file already exists")

// defaultConfigTemplate is the commented configuration file written by
// `agentd config init`. Keep the values in sync with Default().
const defaultConfigTemplate = `# agentd configuration file.
#
# agentd reads this file from ~/.config/llm-agent/config.yaml by default,
# or $XDG_CONFIG_HOME/llm-agent/config.yaml when XDG_CONFIG_HOME is set.
# Every setting is optional; missing settings use the defaults shown here.
#
# The AIPROXY_TOKEN used to authenticate against the model gateway is
# deliberately not a config setting. Export it in the environment instead.

# Address the HTTP API binds to.
listen: "127.0.0.1:8000"

# Directory tree the agent is allowed to read and write. Tasks that
# reference files outside this directory are rejected.
sandbox_root: "/data"

# Log verbosity: debug, info, warn, or error.
log_level: "info"

# Write logs to this file instead of stderr. Empty means stderr only.
log_file: ""

# Append one line per task and file read to this file. Empty disables
# the audit trail.
audit_log: ""

# Model gateway settings. The defaults target the AI Proxy service.
llm:
  base_url: "https://api.aiproxy.xyz/v1"
  model: "gpt-4o-mini"
  embedding_model: "text-embedding-3-small"
  audio_model: "whisper-1"
`

// WriteDefault creates the default configuration file with helpful comments
// at Path(). If the file already exists and overwrite is false, it returns
// ErrExists without touching it. The config directory is created if it
// doesn't exist, and the file is written with 0600 permissions (user
// read/write only).
func WriteDefault(overwrite bool) error {
	path := Path()

	_, err := os.Stat(path)
	if err == nil && !overwrite {
		return ErrExists
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
