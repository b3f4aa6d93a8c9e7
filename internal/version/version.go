// Package version provides version information for agentd.
// The Version variable is set at build time via ldflags.
package version

// Version is the current version of agentd.
// Set at build time via: -ldflags "-X github.com/dwarakesh2005/llm-automation-agent/internal/version.Version=v1.0.0"
// Defaults to "dev" for development builds.
var Version = "dev"
