package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dwarakesh2005/llm-automation-agent/internal/alog"
)

// Load loads the configuration from path. If the file doesn't exist, it
// returns Default(). If the file exists but cannot be read, parsed, or
// validated, it returns an error. Empty fields are filled with defaults,
// and path fields containing ~ are expanded to the home directory.
func Load(path string) (*Config, error) {
	alog.Debug("config: loading from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			alog.Debug("config: file not found, using defaults")
			cfg := Default()
			expandPaths(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	expandPaths(cfg)
	return cfg, nil
}

// LoadDefault loads the configuration from the default config path.
func LoadDefault() (*Config, error) {
	return Load(Path())
}

// expandPaths expands ~ to the home directory in all path fields of the
// configuration.
func expandPaths(cfg *Config) {
	cfg.SandboxRoot = ExpandHome(cfg.SandboxRoot)
	cfg.LogFile = ExpandHome(cfg.LogFile)
	cfg.AuditLog = ExpandHome(cfg.AuditLog)
}
