package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"knewkarma/pkg/config"
	"knewkarma/pkg/ui"
)

const defaultConfigPath = ".knewkarma.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage knewkarma configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (KNEWKARMA_*, also read from .env)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to a file",
	Long: `Write the default configuration to ./.knewkarma.yaml, or to the path given
with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	ui.PrintSuccess("Configuration file created: " + path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return err
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Base URL", cfg.Reddit.BaseURL)
	ui.PrintInfo("Defaults", fmt.Sprintf("sort=%s timeframe=%s limit=%d page delay=%s",
		cfg.Retrieval.Sort, cfg.Retrieval.Timeframe, cfg.Retrieval.Limit, cfg.Retrieval.PageDelay))
	ui.PrintInfo("Rate limit", fmt.Sprintf("%d requests/minute", cfg.RateLimit.RequestsPerMinute))
	ui.PrintInfo("Export directory", cfg.Output.ExportDirectory)
	return nil
}
