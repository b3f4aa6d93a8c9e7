package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dwarakesh2005/llm-automation-agent/internal/config"
	"github.com/dwarakesh2005/llm-automation-agent/internal/prompt"
	"github.com/dwarakesh2005/llm-automation-agent/internal/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage agentd configuration",
	Long: `Manage agentd's configuration.

The configuration file is stored at ~/.config/llm-agent/config.yaml
(or $XDG_CONFIG_HOME/llm-agent/config.yaml if XDG_CONFIG_HOME is set).

The AIPROXY_TOKEN gateway credential is read from the environment,
never from this file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective config",
	Long: `Print the effective configuration as YAML.

If no config file exists, shows the default configuration.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config file path",
	Long:  `Print the path to the configuration file.`,
	Args:  cobra.NoArgs,
	Run:   runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config file",
	Long: `Create a fully-commented configuration file with all default values.

If the file already exists, init asks before overwriting it. Use --force
to overwrite without asking; when stdin is not a terminal init refuses
instead of blocking on a prompt.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configInitForce bool

// configInitPrompter is the yes/no prompter used by config init.
// It can be overridden for testing.
var configInitPrompter prompt.YesNoPrompter

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), config.Path())
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.Path()

	err := config.WriteDefault(configInitForce)
	if errors.Is(err, config.ErrExists) {
		prompter := configInitPrompter
		if prompter == nil {
			if !term.Interactive() {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			prompter = prompt.NewStdinYesNoPrompter(os.Stdin, cmd.OutOrStdout())
		}

		overwrite, perr := prompter.PromptYesNo(
			fmt.Sprintf("Config file %s already exists. Overwrite? [y/N]: ", path), false)
		if perr != nil {
			return fmt.Errorf("failed to get confirmation: %w", perr)
		}
		if !overwrite {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Keeping existing config.")
			return nil
		}
		err = config.WriteDefault(true)
	}
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created default config at: %s\n", path)
	return nil
}
