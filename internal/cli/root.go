package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	clicfg "github.com/patchcycle/bumpver/internal/cli/config"
	clierrors "github.com/patchcycle/bumpver/internal/errors"
	"github.com/patchcycle/bumpver/internal/git"
	"github.com/patchcycle/bumpver/internal/logging"
)

// Command groups shown in help output.
const (
	GroupRelease       = "release"
	GroupInspection    = "inspection"
	GroupConfiguration = "configuration"
)

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "bumpver",
	Short: "Bump release versions and prepend changelog entries",
	Long: `bumpver increments a MAJOR.MINOR.PATCH version and records the release
in a Markdown changelog.

Patch bumps follow a jump rule: a patch component of 0 becomes 100, any
other value is incremented by one. Minor and major bumps reset the lower
components to 0.

Each release entry names the HEAD commit with its author, a link to the
commit on GitHub, and its message.`,
	Example: `  # Bump the patch component of the detected version file
  bumpver bump

  # Preview the next minor version without writing
  bumpver bump minor --dry-run

  # Bump, update CHANGELOG.md, commit and tag
  bumpver release

  # Compute a version without touching any file
  bumpver bump major --from 1.4.102`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logging.Options{Verbose: verbose})
		if err != nil {
			return err
		}
		logger = l
		git.SetDebugLogger(logging.Printf(logger))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupInspection, Title: "Inspection Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	clicfg.ConfigCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(clicfg.ConfigCmd)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Project config file (default: .bumpver/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cliErr := clierrors.NewArgumentError(err.Error(), "Run '"+cmd.CommandPath()+" --help' for usage")
		cliErr.Err = err
		return cliErr
	})
}

// Execute runs the root command and returns the process exit code.
// Errors are printed to stderr with remediation guidance. An interrupt
// cancels in-flight network operations such as pushing.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	if code, ok := silentExitCode(err); ok {
		return code
	}
	clierrors.FprintError(rootCmd.ErrOrStderr(), err)
	return ExitCode(err)
}
