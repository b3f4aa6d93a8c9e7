package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dwarakesh2005/llm-automation-agent/internal/agent"
	"github.com/dwarakesh2005/llm-automation-agent/internal/alog"
	"github.com/dwarakesh2005/llm-automation-agent/internal/audit"
	"github.com/dwarakesh2005/llm-automation-agent/internal/config"
	"github.com/dwarakesh2005/llm-automation-agent/internal/llm"
	"github.com/dwarakesh2005/llm-automation-agent/internal/sandbox"
	"github.com/dwarakesh2005/llm-automation-agent/internal/server"
	"github.com/dwarakesh2005/llm-automation-agent/internal/shell"
	"github.com/dwarakesh2005/llm-automation-agent/internal/term"
)

var serveFlags struct {
	configPath string
	listen     string
	sandboxDir string
	logLevel   string
	logFile    string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the task automation HTTP service",
	Long: `Run the agentd HTTP service.

The service exposes three routes:

  GET  /               liveness message
  POST /run?task=...   vet, classify, and execute one task
  GET  /read?path=...  serve the raw bytes of a sandboxed file

Configuration is read from the config file (see "agentd config path");
flags override individual settings. The server blocks until it receives
SIGINT or SIGTERM, then shuts down gracefully.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.configPath, "config", "", "path to config file")
	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", "", "listen address (host:port)")
	serveCmd.Flags().StringVar(&serveFlags.sandboxDir, "sandbox", "", "sandbox root directory")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	serveCmd.Flags().StringVar(&serveFlags.logFile, "log-file", "", "log file path (empty logs to stderr)")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the config file (explicit path or the default
// location) and layers non-empty flag overrides on top, re-validating
// the result.
func loadConfig(configPath, listen, sandboxDir, logLevel, logFile string) (*config.Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	} else {
		configPath = config.Path()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if listen != "" {
		cfg.Listen = listen
	}
	if sandboxDir != "" {
		cfg.SandboxRoot = config.ExpandHome(sandboxDir)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = config.ExpandHome(logFile)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configureLogging points alog at the configured level and file.
func configureLogging(cfg *config.Config) error {
	level, err := alog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if err := alog.Configure(level, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	return nil
}

// buildAgent constructs the sandbox, gateway client, and agent from
// validated config and credentials.
func buildAgent(cfg *config.Config, creds *config.Credentials) (*agent.Agent, *sandbox.Dir, error) {
	box, err := sandbox.New(cfg.SandboxRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sandbox root: %w", err)
	}

	client := llm.New(llm.Config{
		BaseURL:        cfg.LLM.BaseURL,
		Token:          creds.Token,
		ChatModel:      cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		AudioModel:     cfg.LLM.AudioModel,
	})

	return agent.New(box, client, creds.Email), box, nil
}

// optionalTools are the external commands individual handlers shell
// out to. A missing tool only fails the tasks that need it, so startup
// just warns.
var optionalTools = []string{"sh", "git", "prettier", "python"}

func warnMissingTools() {
	for _, name := range optionalTools {
		if !shell.Available(name) {
			alog.Warn("optional tool %q not found in PATH; tasks that need it will fail", name)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(serveFlags.configPath, serveFlags.listen,
		serveFlags.sandboxDir, serveFlags.logLevel, serveFlags.logFile)
	if err != nil {
		return err
	}

	if err := configureLogging(cfg); err != nil {
		return err
	}
	defer func() { _ = alog.Close() }()

	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	dispatcher, box, err := buildAgent(cfg, creds)
	if err != nil {
		return err
	}

	warnMissingTools()

	var auditLogger *audit.Logger
	if cfg.AuditLog != "" {
		f, err := alog.OpenLogFile(cfg.AuditLog)
		if err != nil {
			alog.Warn("failed to open audit log file %s: %v", cfg.AuditLog, err)
		} else {
			defer func() { _ = f.Close() }()
			auditLogger = audit.NewLogger(f)
			alog.Info("audit logging enabled: %s", cfg.AuditLog)
		}
	}

	srv := server.New(cfg.Listen, dispatcher, box, auditLogger)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	alog.Info("agentd listening on %s (sandbox %s)", srv.ListenAddr(), box.Root())
	term.Printf("agentd listening on %s\n", srv.ListenAddr())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	alog.Debug("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}

	alog.Info("agentd stopped")
	return nil
}
