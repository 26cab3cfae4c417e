package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/patchcycle/bumpver/internal/health"
	"github.com/patchcycle/bumpver/internal/output"
)

var doctorPlain bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the project is ready for a release",
	Long: `Check the version file, changelog, git repository, commit link target
and bump lock without changing anything.

Exits with status 1 when a check fails. Warnings do not affect the status.`,
	Example: `  bumpver doctor
  bumpver doctor --plain`,
	Args:    maxArgs(0),
	RunE:    runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupInspection
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorPlain, "plain", false, "Plain output without colors")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	report := health.RunHealthChecks(health.Target{
		Dir:            ".",
		Manifest:       cfg.Manifest,
		ManifestFormat: cfg.ManifestFormat,
		Changelog:      cfg.Changelog.Path,
		Insert:         cfg.InsertOptions(),
		Repository:     cfg.ChangelogRepository(),
		Remote:         cfg.Git.Remote,
	})

	out := cmd.OutOrStdout()
	if doctorPlain {
		fmt.Fprint(out, health.FormatReport(report))
	} else {
		printReport(out, report)
	}

	if !report.Passed {
		return NewExitError(ExitFailure)
	}
	return nil
}

func printReport(out io.Writer, report *health.HealthReport) {
	for _, check := range report.Checks {
		line := fmt.Sprintf("%s: %s", check.Name, check.Message)
		switch {
		case !check.Passed:
			output.PrintFailure(out, line)
		case check.Warning:
			output.PrintWarning(out, line)
		default:
			output.PrintSuccess(out, line)
		}
	}
}
