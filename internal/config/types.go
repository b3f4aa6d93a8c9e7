// Package config loads and validates the agentd configuration file.
// The configuration maps to a single YAML file; secrets are read from
// the environment instead so they never land on disk.
package config

// Config is the top-level agentd configuration. It is typically stored
// at ~/.config/llm-agent/config.yaml.
type Config struct {
	Listen      string    `yaml:"listen,omitempty"`
	SandboxRoot string    `yaml:"sandbox_root,omitempty"`
	LogLevel    string    `yaml:"log_level,omitempty"`
	LogFile     string    `yaml:"log_file,omitempty"`
	AuditLog    string    `yaml:"audit_log,omitempty"`
	LLM         LLMConfig `yaml:"llm,omitempty"`
}

// LLMConfig contains settings for the hosted model gateway.
type LLMConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	Model          string `yaml:"model,omitempty"`
	EmbeddingModel string `yaml:"embedding_model,omitempty"`
	AudioModel     string `yaml:"audio_model,omitempty"`
}
