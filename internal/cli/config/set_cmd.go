package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patchcycle/bumpver/internal/config"
	clierrors "github.com/patchcycle/bumpver/internal/errors"
)

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the project config (.bumpver/config.yml),
or in the user config with --user. The value is checked against the key's
type; run 'bumpver config keys' for the list of keys.`,
	Example: `  bumpver config set git.push true
  bumpver config set repository.owner acme
  bumpver config set notifications.timeout 5s --user`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
		}
		return nil
	},
	RunE: runConfigSet,
}

func init() {
	setCmd.Flags().Bool("user", false, "Write to the user config instead of the project config")
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetBool("user")
	key, value := args[0], args[1]

	path, err := getConfigPath(user)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	if err := config.SetConfigValue(path, key, value); err != nil {
		return clierrors.Wrap(err, clierrors.Argument, "List valid keys with: bumpver config keys")
	}

	scope := "project"
	if user {
		scope = "user"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s in %s config (%s)\n", cGreen("✓"), key, value, scope, cDim(path))
	return nil
}
