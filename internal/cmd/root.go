// Package cmd implements the CLI commands for agentd.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dwarakesh2005/llm-automation-agent/internal/term"
	"github.com/dwarakesh2005/llm-automation-agent/internal/version"
)

var silentFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "agentd",
	Short: "LLM task automation service",
	Long: `Agentd turns free-text task descriptions into fixed automation actions.
Each task is classified by keyword and dispatched to a handler that may
shell out to CLI tools, call an OpenAI-compatible model gateway, fetch
web data, or rewrite files under the sandbox root.

Run it as an HTTP service with "agentd serve", or dispatch a single
task from the command line with "agentd task". The AIPROXY_TOKEN
environment variable must hold the gateway credential in both modes.`,
	Version: version.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		term.SetSilent(silentFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&silentFlag, "silent", false,
		"suppress normal output (warnings and errors still print)")
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}
