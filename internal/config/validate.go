package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dwarakesh2005/llm-automation-agent/internal/alog"
)

// Validate validates a parsed Config, checking that all fields contain
// usable values. It validates:
//   - Listen is host:port or :port with a port in 1-65535
//   - LogLevel is one of: debug, info, warn, error (if non-empty)
//   - SandboxRoot is non-empty and absolute after ~ expansion
//   - LLM.BaseURL is an http or https URL (if non-empty)
//
// Returns nil if the config is valid, or an error with a clear message
// indicating which field is invalid.
func Validate(cfg *Config) error {
	if cfg.Listen != "" {
		if err := validateListenAddr(cfg.Listen, "listen"); err != nil {
			return err
		}
	}

	if cfg.LogLevel != "" {
		if _, err := alog.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("log_level: invalid value %q, must be one of: debug, info, warn, error", cfg.LogLevel)
		}
	}

	if cfg.SandboxRoot == "" {
		return fmt.Errorf("sandbox_root: must not be empty")
	}
	if !filepath.IsAbs(ExpandHome(cfg.SandboxRoot)) {
		return fmt.Errorf("sandbox_root: %q is not an absolute path", cfg.SandboxRoot)
	}

	if cfg.LLM.BaseURL != "" {
		if err := validateBaseURL(cfg.LLM.BaseURL, "llm.base_url"); err != nil {
			return err
		}
	}

	return nil
}

// validateListenAddr validates a listen address in the format ":port" or
// "host:port". Port must be in the range 1-65535.
func validateListenAddr(addr, field string) error {
	// Find the port portion (after the last colon)
	colonIdx := strings.LastIndex(addr, ":")
	if colonIdx == -1 {
		return fmt.Errorf("%s: invalid format %q, expected host:port or :port", field, addr)
	}

	portStr := addr[colonIdx+1:]
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("%s: invalid port %q in %q", field, portStr, addr)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s: invalid port number %d, must be 1-65535", field, port)
	}

	return nil
}

// validateBaseURL validates that a URL parses and uses an http or https
// scheme with a host.
func validateBaseURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid URL %q: %v", field, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: %q must use http or https", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: %q is missing a host", field, raw)
	}
	return nil
}
