package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dwarakesh2005/llm-automation-agent/internal/alog"
	"github.com/dwarakesh2005/llm-automation-agent/internal/config"
	"github.com/dwarakesh2005/llm-automation-agent/internal/server"
	"github.com/dwarakesh2005/llm-automation-agent/internal/task"
)

var taskFlags struct {
	configPath string
	sandboxDir string
	logLevel   string
	logFile    string
}

var taskCmd = &cobra.Command{
	Use:   "task <description>...",
	Short: "Execute a single task without the HTTP server",
	Long: `Vet, classify, and execute one task, then print its result as JSON.

The task goes through the same security checks as the POST /run route.
A rejected task exits with code 2; a task whose handler reports an
error status exits with code 1.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	taskCmd.Flags().StringVar(&taskFlags.configPath, "config", "", "path to config file")
	taskCmd.Flags().StringVar(&taskFlags.sandboxDir, "sandbox", "", "sandbox root directory")
	taskCmd.Flags().StringVar(&taskFlags.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	taskCmd.Flags().StringVar(&taskFlags.logFile, "log-file", "", "log file path (empty logs to stderr)")
	rootCmd.AddCommand(taskCmd)
}

func runTask(cmd *cobra.Command, args []string) error {
	taskText := strings.Join(args, " ")

	cfg, err := loadConfig(taskFlags.configPath, "", taskFlags.sandboxDir,
		taskFlags.logLevel, taskFlags.logFile)
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

	if detail := server.VetTask(taskText, box); detail != "" {
		return &ExitCodeError{Code: 2, Err: errors.New(detail)}
	}

	result := dispatcher.Execute(cmd.Context(), taskText)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))

	if result.Status == task.StatusError {
		return &ExitCodeError{Code: 1, Err: errors.New(result.Message)}
	}
	return nil
}
