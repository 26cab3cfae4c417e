package errors

import (
	stderrors "errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"

	"github.com/patchcycle/bumpver/internal/changelog"
	"github.com/patchcycle/bumpver/internal/git"
	"github.com/patchcycle/bumpver/internal/manifest"
	"github.com/patchcycle/bumpver/internal/release"
	"github.com/patchcycle/bumpver/internal/semver"
)

// Common error messages for the bumpver CLI.
// These templates ensure consistent, actionable error messages.

// InvalidBumpKind creates an error for an unrecognized bump kind argument.
func InvalidBumpKind(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"invalid bump kind",
		"Use one of: major, minor, patch",
		"Omit the argument to bump the patch component",
	).WithUsage("bumpver bump [major|minor|patch]")
}

// InvalidVersionFormat creates an error for a version that is not MAJOR.MINOR.PATCH.
func InvalidVersionFormat(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"invalid version",
		"Versions must be exactly three dot-separated non-negative integers, e.g. 1.2.100",
		"Prefixes such as 'v' and suffixes such as '-rc.1' are not supported",
	)
}

// VersionOverflow creates an error when a component cannot be incremented.
func VersionOverflow(err error) *CLIError {
	return WrapWithMessage(err, Project,
		"cannot bump version",
		"Bump a higher-order component instead (minor or major)",
	)
}

// ManifestNotFound creates an error when no version file can be found.
func ManifestNotFound(err error) *CLIError {
	return WrapWithMessage(err, Project,
		"no version file",
		"Create a VERSION file containing e.g. 0.1.0",
		"Or point bumpver at your file: bumpver config set manifest path/to/package.json",
	)
}

// VersionFieldMissing creates an error when a structured manifest lacks a version key.
func VersionFieldMissing(err error) *CLIError {
	return WrapWithMessage(err, Project,
		"version file has no version",
		"Add a top-level \"version\" field to the manifest",
	)
}

// ChangelogMarkerMissing creates an error when the changelog has no insertion point.
func ChangelogMarkerMissing(err error) *CLIError {
	return WrapWithMessage(err, Project,
		"cannot find where to insert the changelog entry",
		"Add the line "+changelog.Marker+" where new entries should go",
		"Or set a fixed header length: bumpver config set changelog.header_lines <N>",
	)
}

// ChangelogHeaderTooShort creates an error when changelog.header_lines exceeds the document.
func ChangelogHeaderTooShort(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"changelog header setting does not match the document",
		"Lower changelog.header_lines or add the entry marker "+changelog.Marker,
	)
}

// InvalidCommitSha creates an error when HEAD's hash cannot be rendered.
func InvalidCommitSha(err error) *CLIError {
	return WrapWithMessage(err, Repository,
		"invalid commit hash",
		fmt.Sprintf("Commit hashes must be at least %d hexadecimal characters", changelog.ShortSHALength),
	)
}

// TagExists creates an error when the release tag is already present.
func TagExists(err error) *CLIError {
	return WrapWithMessage(err, Repository,
		"release tag already exists",
		"Check the version file; it may be behind the latest tag (bumpver changelog show --last 1)",
		"Or release without tagging: bumpver release --no-tag",
	)
}

// RepositoryUnknown creates an error when commit links cannot be built.
func RepositoryUnknown(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"unknown GitHub repository",
		"Set it in config: bumpver config set repository.owner <owner> && bumpver config set repository.name <name>",
		"Or set GITHUB_REPOSITORY=owner/name",
		"Or add a remote: git remote add origin git@github.com:owner/name.git",
	)
}

// ReleaseLocked creates an error when another bump holds the lock.
func ReleaseLocked(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"another bump is in progress",
		"Wait for the other bumpver process to finish",
		"If no other process is running, delete the lock file named in the message",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository(err error) *CLIError {
	return WrapWithMessage(err, Repository,
		"not a git repository",
		"Initialize with: git init",
		"Or navigate to an existing repository",
	)
}

// NoCommits creates an error when the repository has no HEAD commit.
func NoCommits(err error) *CLIError {
	return WrapWithMessage(err, Repository,
		"repository has no commits",
		"Create an initial commit before releasing",
	)
}

// ConfigParseError creates an error for invalid config file format.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check the YAML syntax of .bumpver/config.yml",
		"List valid keys with: bumpver config keys",
		"Reset to defaults with: bumpver config init --force",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'bumpver <command> --help' to see valid options",
	)
}

// Classify converts err into a CLIError with remediation guidance.
// Errors that are already CLIErrors are returned unchanged; unknown errors
// become runtime errors.
func Classify(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	switch {
	case stderrors.Is(err, semver.ErrInvalidArgument):
		return InvalidBumpKind(err)
	case stderrors.Is(err, semver.ErrInvalidVersionFormat):
		return InvalidVersionFormat(err)
	case stderrors.Is(err, semver.ErrOverflow):
		return VersionOverflow(err)
	case stderrors.Is(err, manifest.ErrNoManifest):
		return ManifestNotFound(err)
	case stderrors.Is(err, manifest.ErrVersionFieldMissing):
		return VersionFieldMissing(err)
	case stderrors.Is(err, changelog.ErrMissingMarker):
		return ChangelogMarkerMissing(err)
	case stderrors.Is(err, changelog.ErrHeaderTooShort):
		return ChangelogHeaderTooShort(err)
	case stderrors.Is(err, changelog.ErrInvalidCommitSha):
		return InvalidCommitSha(err)
	case stderrors.Is(err, release.ErrTagExists):
		return TagExists(err)
	case stderrors.Is(err, release.ErrNoRepository):
		return RepositoryUnknown(err)
	case stderrors.Is(err, release.ErrLocked):
		return ReleaseLocked(err)
	case stderrors.Is(err, release.ErrNoVCS), stderrors.Is(err, gogit.ErrRepositoryNotExists):
		return GitNotRepository(err)
	case stderrors.Is(err, git.ErrNoCommits):
		return NoCommits(err)
	case stderrors.Is(err, git.ErrSSHAgentUnavailable):
		return WrapWithMessage(err, Repository, "cannot authenticate push",
			"Start an SSH agent and add your key: eval $(ssh-agent) && ssh-add",
			"Or use an HTTPS remote with GITHUB_TOKEN set",
		)
	default:
		return Wrap(err, Runtime)
	}
}
