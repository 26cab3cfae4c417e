package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patchcycle/bumpver/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert the legacy JSON project config to YAML",
	Long: `Convert .bumpver/config.json to .bumpver/config.yml.

Each value is checked like 'bumpver config set' checks it; unknown keys and
invalid values are reported and left out. The JSON file is kept as
config.json.bak after a successful migration. An existing YAML config is
never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().Bool("dry-run", false, "Report what would be migrated without writing")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	result, err := config.MigrateProjectConfig(dryRun)
	if err != nil {
		return fmt.Errorf("migrating config: %w", err)
	}

	if !result.Success {
		fmt.Fprintln(out, result.Message)
		return nil
	}

	if err := config.RemoveLegacyConfig(result.SourcePath, dryRun); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", cGreen("✓"), result.Message)
	for _, key := range result.SkippedKeys() {
		fmt.Fprintf(out, "  %s %s: %s\n", cYellow("skipped"), key, result.Skipped[key])
	}
	if !dryRun {
		fmt.Fprintf(out, "  Backup: %s.bak\n", result.SourcePath)
	}
	return nil
}
