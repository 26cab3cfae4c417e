package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/patchcycle/bumpver/internal/changelog"
	"github.com/patchcycle/bumpver/internal/config"
	clierrors "github.com/patchcycle/bumpver/internal/errors"
	"github.com/patchcycle/bumpver/internal/git"
	"github.com/patchcycle/bumpver/internal/manifest"
	"github.com/patchcycle/bumpver/internal/semver"
)

// loadConfig loads the layered configuration, honoring --config.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: cfgFile,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}
	for _, src := range cfg.Sources {
		logger.Debug("config source loaded", zap.String("source", string(src.Source)), zap.String("path", src.Path))
	}
	return cfg, nil
}

// openVersionStore opens the configured version file, detecting one in the
// working directory when none is configured.
func openVersionStore(cfg *config.Configuration) (manifest.Store, error) {
	format, err := manifest.ParseFormat(cfg.ManifestFormat)
	if err != nil {
		return nil, clierrors.Wrap(err, clierrors.Configuration,
			"Set manifest_format to one of: auto, json, yaml, text")
	}

	path := cfg.Manifest
	if path == "" {
		path, err = manifest.Detect(".")
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("using version file", zap.String("path", path), zap.String("format", string(format)))
	return manifest.Open(path, format)
}

// resolveRepository returns the repository for commit links: configuration
// (including GITHUB_REPOSITORY) first, then the URL of the git remote.
func resolveRepository(cfg *config.Configuration, repo *git.Repo) changelog.Repository {
	if r := cfg.ChangelogRepository(); !r.IsZero() {
		return r
	}
	if repo == nil {
		return changelog.Repository{}
	}
	r, err := repo.Repository(cfg.Git.Remote)
	if err != nil {
		logger.Debug("repository not derivable from remote", zap.String("remote", cfg.Git.Remote), zap.Error(err))
		return changelog.Repository{}
	}
	return r
}

// signature returns the configured commit author, or nil to use git config.
func signature(cfg *config.Configuration) *git.Signature {
	if cfg.Git.AuthorName == "" {
		return nil
	}
	return &git.Signature{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}

// parseKindArg reads the optional bump kind positional argument. An omitted
// argument means patch; an empty one is rejected.
func parseKindArg(args []string) (semver.Kind, error) {
	if len(args) == 0 {
		return semver.Patch, nil
	}
	if args[0] == "" {
		return "", &semver.ArgumentError{Value: args[0]}
	}
	return semver.ParseKind(args[0])
}

// maxArgs is cobra.MaximumNArgs reporting an argument error.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
		}
		return nil
	}
}
