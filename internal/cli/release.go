package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/patchcycle/bumpver/internal/changelog"
	"github.com/patchcycle/bumpver/internal/config"
	clierrors "github.com/patchcycle/bumpver/internal/errors"
	"github.com/patchcycle/bumpver/internal/git"
	"github.com/patchcycle/bumpver/internal/history"
	"github.com/patchcycle/bumpver/internal/notify"
	"github.com/patchcycle/bumpver/internal/output"
	"github.com/patchcycle/bumpver/internal/progress"
	"github.com/patchcycle/bumpver/internal/release"
)

var releaseCmd = &cobra.Command{
	Use:   "release [major|minor|patch]",
	Short: "Bump the version, update the changelog, commit and tag",
	Long: `Run a full release:

  1. Increment the version in the version file (default kind: patch)
  2. Prepend an entry for the HEAD commit to the changelog
  3. Commit the version file and changelog (git.commit)
  4. Create an annotated tag named <git.tag_prefix><version> (git.tag)
  5. Push the branch and tag to git.remote (git.push or --push)

The entry links to the commit on GitHub. The repository is taken from the
'repository' settings, GITHUB_REPOSITORY, or the URL of git.remote.

A completed release is appended to the release history and, when enabled,
announced on Slack.`,
	Example: `  # Patch release with commit and tag
  bumpver release

  # Minor release, pushed to origin
  bumpver release minor --push

  # Show the changelog entry without changing anything
  bumpver release --dry-run

  # Only update the files
  bumpver release --no-commit --no-tag`,
	Args:      maxArgs(1),
	ValidArgs: kindNames(),
	RunE:      runRelease,
}

func init() {
	releaseCmd.GroupID = GroupRelease
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().BoolP("dry-run", "n", false, "Print the changelog entry without writing anything")
	releaseCmd.Flags().Bool("no-commit", false, "Do not commit the release files")
	releaseCmd.Flags().Bool("no-tag", false, "Do not create a release tag")
	releaseCmd.Flags().Bool("push", false, "Push the branch and tag after releasing")
	releaseCmd.Flags().String("remote", "", "Remote to push to (default: git.remote)")
}

func runRelease(cmd *cobra.Command, args []string) error {
	kind, err := parseKindArg(args)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noCommit, _ := cmd.Flags().GetBool("no-commit")
	noTag, _ := cmd.Flags().GetBool("no-tag")
	push, _ := cmd.Flags().GetBool("push")
	remote, _ := cmd.Flags().GetString("remote")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if remote != "" {
		cfg.Git.Remote = remote
	}

	opts := release.Options{
		Kind:          kind,
		DryRun:        dryRun,
		Commit:        cfg.Git.Commit && !noCommit,
		Tag:           cfg.Git.Tag && !noTag,
		Push:          cfg.Git.Push || push,
		TagPrefix:     cfg.Git.TagPrefix,
		Remote:        cfg.Git.Remote,
		CommitMessage: cfg.Git.CommitMessage,
	}
	if opts.Push && !opts.Commit && !opts.Tag {
		return clierrors.InvalidFlagCombination("--push with --no-commit and --no-tag",
			"A push without a release commit or tag publishes nothing; drop --no-commit or --no-tag")
	}
	if opts.Tag && !opts.Commit && !dryRun {
		logger.Warn("tagging without a release commit; the tag will point at the current HEAD")
	}

	wf, err := newReleaseWorkflow(cmd, cfg)
	if err != nil {
		return err
	}

	res, err := wf.Release(cmd.Context(), opts)
	if err != nil {
		return err
	}

	printReleaseResult(cmd.OutOrStdout(), res, cfg)
	return nil
}

// newReleaseWorkflow wires the workflow collaborators from configuration.
func newReleaseWorkflow(cmd *cobra.Command, cfg *config.Configuration) (*release.Workflow, error) {
	store, err := openVersionStore(cfg)
	if err != nil {
		return nil, err
	}

	repo, err := git.Open(".")
	if err != nil {
		return nil, clierrors.GitNotRepository(err)
	}

	repository := resolveRepository(cfg, repo)
	logger.Debug("release repository", zap.String("repository", repository.String()))

	return &release.Workflow{
		Versions:      store,
		Changelog:     changelog.FileStore{Path: cfg.Changelog.Path},
		ChangelogPath: cfg.Changelog.Path,
		VCS:           repo,
		Repository:    repository,
		Insert:        cfg.InsertOptions(),
		Author:        signature(cfg),
		Notifier:      notify.NewHandler(cfg.Notifications, logger),
		History:       history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries, logger),
		Progress:      newProgress(cmd.ErrOrStderr()),
		Logger:        logger,
	}, nil
}

// newProgress returns a spinner on a terminal and plain messages elsewhere.
func newProgress(w io.Writer) *progress.Spinner {
	f, _ := w.(*os.File)
	return progress.NewSpinner(w, progress.DetectTerminalCapabilities(f))
}

func printReleaseResult(out io.Writer, res *release.Result, cfg *config.Configuration) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if res.DryRun {
		fmt.Fprintf(out, "%s %s -> %s (%s)\n\n", dim("Dry run:"), res.Previous, bold(res.Version.String()), res.Kind)
		fmt.Fprint(out, res.Entry)
		fmt.Fprintln(out, dim("No files were changed."))
		return
	}

	output.PrintSuccess(out, fmt.Sprintf("Released %s (%s bump from %s)", bold(res.Version.String()), res.Kind, res.Previous))
	output.PrintDetail(out, "Changelog", cfg.Changelog.Path)
	if res.ReleaseCommit != "" {
		output.PrintDetail(out, "Commit", shortHash(res.ReleaseCommit))
	}
	if res.Tag != "" {
		output.PrintDetail(out, "Tag", res.Tag)
	}
	if res.Pushed {
		output.PrintDetail(out, "Pushed", cfg.Git.Remote)
	}
	if res.NewerTag != "" {
		output.PrintWarning(out, fmt.Sprintf("%s is older than the existing tag %s", res.Version, res.NewerTag))
	}
}

func shortHash(hash string) string {
	return changelog.Commit{SHA: hash}.ShortSHA()
}
