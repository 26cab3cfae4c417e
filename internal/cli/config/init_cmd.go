package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/patchcycle/bumpver/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with all defaults",
	Long: `Create a fully commented configuration file with every default value.

By default, creates the project config (.bumpver/config.yml). Use --user to
create the user config (~/.config/bumpver/config.yml) which applies to all
your projects. An existing config is left unchanged unless --force is given.`,
	Example: `  bumpver config init
  bumpver config init --user
  bumpver config init --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("user", false, "Create the user-level config")
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing config with defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetBool("user")
	force, _ := cmd.Flags().GetBool("force")

	path, err := getConfigPath(user)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	out := cmd.OutOrStdout()
	if _, err := initializeConfig(out, path, force); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	if legacy := config.DetectLegacyConfig(); legacy != "" && !user {
		fmt.Fprintf(out, "%s Legacy config %s is still present; run 'bumpver config migrate'\n", cYellow("⚠"), legacy)
	}
	return nil
}

// initializeConfig writes the default config to path. It returns false when
// an existing file was kept.
func initializeConfig(out io.Writer, path string, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "%s Config already exists: %s (use --force to overwrite)\n", cYellow("⚠"), cDim(path))
		return false, nil
	}

	if err := writeDefaultConfig(path); err != nil {
		return false, err
	}
	fmt.Fprintf(out, "%s Created config: %s\n", cGreen("✓"), path)
	return true, nil
}

func writeDefaultConfig(configPath string) error {
	if err := EnsureDirectory(filepath.Dir(configPath)); err != nil {
		return err
	}
	if err := os.WriteFile(configPath, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
