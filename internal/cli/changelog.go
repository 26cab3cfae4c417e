package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/patchcycle/bumpver/internal/changelog"
	"github.com/patchcycle/bumpver/internal/config"
	"github.com/patchcycle/bumpver/internal/git"
	"github.com/patchcycle/bumpver/internal/release"
	"github.com/patchcycle/bumpver/internal/semver"
)

var (
	changelogLastFlag    int
	changelogPlainFlag   bool
	changelogOnelineFlag bool
	changelogVersionFlag string
	changelogKindFlag    semver.Kind
	changelogForceFlag   bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Preview, view and create the changelog",
	Long: `Work with the Markdown changelog that 'bumpver release' writes.

New entries are inserted below the line

  ` + changelog.Marker + `

or, when changelog.header_lines is set, after that many lines.`,
}

var changelogEntryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Print the changelog entry the next release would write",
	Long: `Print the entry for the HEAD commit without changing any file.

The version defaults to the next version of the version file for --kind
(patch unless given). Use --version to render an entry for any version.`,
	Example: `  bumpver changelog entry
  bumpver changelog entry --kind minor
  bumpver changelog entry --version 2.0.0`,
	Args: maxArgs(0),
	RunE: runChangelogEntry,
}

var changelogShowCmd = &cobra.Command{
	Use:   "show [version]",
	Short: "View entries of the changelog",
	Long: `View entries of the changelog document.

By default, shows the 5 most recent entries. Use a version argument to
see the entry for a specific version, or use --last to control entry count.`,
	Example: `  bumpver changelog show              # Show 5 most recent entries
  bumpver changelog show 1.2.100      # Show the entry for 1.2.100
  bumpver changelog show v1.2.100     # Same (v prefix optional)
  bumpver changelog show --last 10    # Show 10 most recent entries
  bumpver changelog show --plain      # Plain output (no colors)
  bumpver changelog show --oneline    # One line per entry: version, commit, subject`,
	Args: maxArgs(1),
	RunE: runChangelogShow,
}

var changelogInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the changelog with the default header",
	Long: `Create the changelog document with a header that ends in the entry marker.

An existing non-empty changelog is left unchanged unless --force is given.`,
	Args: maxArgs(0),
	RunE: runChangelogInit,
}

func init() {
	changelogCmd.GroupID = GroupInspection
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.AddCommand(changelogEntryCmd, changelogShowCmd, changelogInitCmd)

	changelogEntryCmd.Flags().StringVar(&changelogVersionFlag, "version", "", "Render the entry for this version")
	changelogEntryCmd.Flags().Var(newKindValue(&changelogKindFlag), "kind", "Bump kind used to compute the version (major, minor, patch)")

	changelogShowCmd.Flags().IntVar(&changelogLastFlag, "last", 5, "Number of entries to show")
	changelogShowCmd.Flags().BoolVar(&changelogPlainFlag, "plain", false, "Plain text output (no colors)")
	changelogShowCmd.Flags().BoolVar(&changelogOnelineFlag, "oneline", false, "Print one summary line per entry")

	changelogInitCmd.Flags().BoolVarP(&changelogForceFlag, "force", "f", false, "Overwrite an existing changelog")
}

func runChangelogEntry(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	version, err := entryVersion(cfg)
	if err != nil {
		return err
	}

	repo, err := git.Open(".")
	if err != nil {
		return err
	}
	head, err := repo.HeadCommit()
	if err != nil {
		return err
	}
	repository := resolveRepository(cfg, repo)
	if repository.IsZero() {
		return release.ErrNoRepository
	}

	entry, err := changelog.FormatEntry(version, head, repository, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), entry)
	return nil
}

// entryVersion returns --version, or the next version of the version file.
func entryVersion(cfg *config.Configuration) (semver.Version, error) {
	if changelogVersionFlag != "" {
		return semver.Parse(changelogVersionFlag)
	}

	store, err := openVersionStore(cfg)
	if err != nil {
		return semver.Version{}, err
	}
	wf := &release.Workflow{Versions: store, Logger: logger}
	_, next, err := wf.Next(changelogKindFlag)
	return next, err
}

func runChangelogShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	doc, err := changelog.FileStore{Path: cfg.Changelog.Path}.Load()
	if err != nil {
		return err
	}
	log := changelog.Parse(doc)

	opts := changelog.FormatOptions{
		Plain: changelogPlainFlag,
	}

	// If version specified, show that version
	if len(args) == 1 {
		return showRelease(log, args[0], cmd, opts)
	}

	// Otherwise show last N entries
	return showLastReleases(log, changelogLastFlag, cmd, opts)
}

func showRelease(log *changelog.Changelog, version string, cmd *cobra.Command, opts changelog.FormatOptions) error {
	r, err := log.GetRelease(version)
	if err != nil {
		var notFound *changelog.ReleaseNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n", version)
			if len(notFound.AvailableVersions) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nAvailable versions:\n")
				for _, ver := range notFound.AvailableVersions {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", ver)
				}
			}
			return NewExitError(ExitInvalidArguments)
		}
		return fmt.Errorf("getting version: %w", err)
	}

	return changelog.FormatRelease(r, cmd.OutOrStdout(), opts)
}

func showLastReleases(log *changelog.Changelog, n int, cmd *cobra.Command, opts changelog.FormatOptions) error {
	releases := log.GetLastN(n)
	if len(releases) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No changelog entries found.")
		return nil
	}

	if changelogOnelineFlag {
		for _, r := range releases {
			fmt.Fprintln(cmd.OutOrStdout(), changelog.FormatReleaseSummary(r))
		}
	} else if err := changelog.FormatTerminal(releases, cmd.OutOrStdout(), opts); err != nil {
		return fmt.Errorf("formatting entries: %w", err)
	}

	total := log.Count()
	if total > len(releases) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(%d of %d entries shown. Use --last %d to see all)\n",
			len(releases), total, total)
	}

	return nil
}

func runChangelogInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store := changelog.FileStore{Path: cfg.Changelog.Path}
	doc, err := store.Load()
	if err != nil {
		return err
	}
	if doc != "" && !changelogForceFlag {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists (use --force to overwrite)\n", cfg.Changelog.Path)
		if !changelog.HasMarker(doc) && cfg.Changelog.HeaderLines == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Add the line %s where new entries should go.\n", changelog.Marker)
		}
		return nil
	}

	if err := store.Save(changelog.DefaultHeader(cfg.Changelog.Project)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", cfg.Changelog.Path)
	return nil
}
