package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patchcycle/bumpver/internal/release"
	"github.com/patchcycle/bumpver/internal/semver"
)

var (
	bumpDryRun bool
	bumpFrom   string
)

var bumpCmd = &cobra.Command{
	Use:   "bump [major|minor|patch]",
	Short: "Increment the version in the version file",
	Long: `Increment the version stored in the version file and print the new version.

The kind defaults to patch. A patch component of 0 jumps to 100; any other
patch value is incremented by one. Minor and major bumps reset the lower
components to 0.

The version file is taken from the 'manifest' setting, or detected in the
current directory (package.json, VERSION, version.yml, version.yaml).`,
	Example: `  # 1.2.0 -> 1.2.100, 1.2.100 -> 1.2.101
  bumpver bump

  # 1.2.101 -> 1.3.0
  bumpver bump minor

  # Print the next version without writing it
  bumpver bump major --dry-run

  # Compute from a literal version; no files are read or written
  bumpver bump --from 0.9.0`,
	Args:      maxArgs(1),
	ValidArgs: kindNames(),
	RunE:      runBump,
}

func init() {
	bumpCmd.GroupID = GroupRelease
	rootCmd.AddCommand(bumpCmd)

	bumpCmd.Flags().BoolVarP(&bumpDryRun, "dry-run", "n", false, "Print the next version without writing it")
	bumpCmd.Flags().StringVar(&bumpFrom, "from", "", "Compute the next version from this version instead of the version file")
}

func runBump(cmd *cobra.Command, args []string) error {
	kind, err := parseKindArg(args)
	if err != nil {
		return err
	}

	if bumpFrom != "" {
		next, err := semver.NextVersion(bumpFrom, string(kind))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), next)
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openVersionStore(cfg)
	if err != nil {
		return err
	}

	wf := &release.Workflow{Versions: store, Logger: logger}
	res, err := wf.Bump(kind, bumpDryRun)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Version)
	return nil
}
