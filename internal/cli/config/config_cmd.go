package config

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/patchcycle/bumpver/internal/config"
	clierrors "github.com/patchcycle/bumpver/internal/errors"
)

// Color helper functions for config command output
var (
	cGreen  = color.New(color.FgGreen).SprintFunc()
	cYellow = color.New(color.FgYellow).SprintFunc()
	cCyan   = color.New(color.FgCyan).SprintFunc()
	cDim    = color.New(color.Faint).SprintFunc()
)

// redacted replaces secrets in 'config show' output.
const redacted = "********"

// ConfigCmd is the 'config' command group.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bumpver configuration",
	Long: `Manage bumpver configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (BUMPVER_*)
  2. Project config (.bumpver/config.yml)
  3. User config (~/.config/bumpver/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  bumpver config show

  # List every configuration key
  bumpver config keys

  # Set a value in the project config
  bumpver config set git.tag_prefix release-

  # Create a project config with all defaults
  bumpver config init`,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after all layers are applied, with the sources
that contributed to it. The Slack webhook URL is redacted.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	ConfigCmd.AddCommand(showCmd, keysCmd, setCmd, initCmd, migrateCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: path,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}
	return cfg, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration Sources:")
	for _, src := range cfg.Sources {
		if src.Path != "" {
			fmt.Fprintf(out, "  %s %s\n", cCyan(string(src.Source)), cDim(src.Path))
		} else {
			fmt.Fprintf(out, "  %s\n", cCyan(string(src.Source)))
		}
	}
	fmt.Fprintln(out)

	shown := *cfg
	if shown.Notifications.WebhookURL != "" {
		shown.Notifications.WebhookURL = redacted
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigKeys(cmd *cobra.Command, args []string) error {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Key", "Type", "Default", "Description"})

	for _, key := range config.SortedKeys() {
		schema := config.KnownKeys[key]
		typ := schema.Type.String()
		if len(schema.AllowedValues) > 0 {
			typ = strings.Join(schema.AllowedValues, "|")
		}
		t.AppendRow(table.Row{key, typ, formatDefault(schema.Default), schema.Description})
	}

	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func formatDefault(v interface{}) string {
	if s, ok := v.(string); ok && s == "" {
		return `""`
	}
	return fmt.Sprint(v)
}
