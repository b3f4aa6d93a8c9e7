package config

import "github.com/dwarakesh2005/llm-automation-agent/internal/llm"

// DefaultListen is the address the HTTP API binds to when not configured.
const DefaultListen = "127.0.0.1:8000"

// DefaultSandboxRoot is the directory tree the agent operates on when not
// configured. Every file a handler reads or writes lives under it.
const DefaultSandboxRoot = "/data"

// Default returns a Config with all defaults populated. The agent serves
// on localhost only and confines file access to DefaultSandboxRoot; model
// gateway settings come from the llm package.
func Default() *Config {
	return &Config{
		Listen:      DefaultListen,
		SandboxRoot: DefaultSandboxRoot,
		LogLevel:    "info",
		LLM: LLMConfig{
			BaseURL:        llm.DefaultBaseURL,
			Model:          llm.DefaultChatModel,
			EmbeddingModel: llm.DefaultEmbeddingModel,
			AudioModel:     llm.DefaultAudioModel,
		},
	}
}

// applyDefaults fills empty fields of cfg with their default values, so a
// sparse config file only needs the settings it overrides. LogFile and
// AuditLog are left alone: empty is meaningful for both.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Listen == "" {
		cfg.Listen = def.Listen
	}
	if cfg.SandboxRoot == "" {
		cfg.SandboxRoot = def.SandboxRoot
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = def.LLM.BaseURL
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.EmbeddingModel == "" {
		cfg.LLM.EmbeddingModel = def.LLM.EmbeddingModel
	}
	if cfg.LLM.AudioModel == "" {
		cfg.LLM.AudioModel = def.LLM.AudioModel
	}
}
