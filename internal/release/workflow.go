package release

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/patchcycle/bumpver/internal/changelog"
	"github.com/patchcycle/bumpver/internal/git"
	"github.com/patchcycle/bumpver/internal/history"
	"github.com/patchcycle/bumpver/internal/notify"
	"github.com/patchcycle/bumpver/internal/semver"
)

// DefaultCommitMessage is used when Options.CommitMessage is empty.
const DefaultCommitMessage = "chore(release): {{version}}"

// VersionPlaceholder is replaced by the new version in commit messages.
const VersionPlaceholder = "{{version}}"

var (
	// ErrTagExists is returned when the tag for the new version already exists.
	ErrTagExists = errors.New("tag already exists")

	// ErrNoRepository is returned when no GitHub repository is known for
	// commit links.
	ErrNoRepository = errors.New("repository owner/name is not configured")

	// ErrNoVCS is returned when an operation needs version control but the
	// workflow has none.
	ErrNoVCS = errors.New("no git repository available")
)

// VersionStore reads and writes the project version.
type VersionStore interface {
	Path() string
	ReadVersion() (string, error)
	WriteVersion(version string) error
}

// ChangelogStore loads and saves the changelog document.
type ChangelogStore interface {
	Load() (string, error)
	Save(doc string) error
}

// VCS is the version control surface the workflow uses.
type VCS interface {
	HeadCommit() (changelog.Commit, error)
	TagExists(name string) (bool, error)
	LatestVersionTag(prefix string) (string, error)
	CommitFiles(paths []string, message string, author *git.Signature) (string, error)
	CreateTag(name, message string, tagger *git.Signature) error
	Push(ctx context.Context, remote, tag string) error
}

// Notifier is told about finished and failed releases.
type Notifier interface {
	OnRelease(ctx context.Context, ev notify.ReleaseEvent)
	OnError(ctx context.Context, version string, err error)
}

// Recorder appends to the release history.
type Recorder interface {
	Record(entry history.Entry)
}

// Progress shows activity during slow steps such as pushing.
type Progress interface {
	Start(message string)
	Stop()
}

// Workflow performs bumps and releases against injected collaborators.
// Versions is required; the rest are needed only by the steps that use them.
type Workflow struct {
	Versions      VersionStore
	Changelog     ChangelogStore
	ChangelogPath string
	VCS           VCS
	Repository    changelog.Repository
	Insert        changelog.InsertOptions
	Author        *git.Signature

	Notifier Notifier
	History  Recorder
	Progress Progress
	Logger   *zap.Logger
	Now      func() time.Time
}

// Options selects what Release does beyond bumping.
type Options struct {
	Kind          semver.Kind
	DryRun        bool
	Commit        bool
	Tag           bool
	Push          bool
	TagPrefix     string
	Remote        string
	CommitMessage string
}

// Result describes the outcome of a bump or release.
type Result struct {
	Previous semver.Version
	Version  semver.Version
	Kind     semver.Kind
	DryRun   bool

	// Entry is the rendered changelog entry. Empty for plain bumps.
	Entry string
	// Head is the commit the entry refers to.
	Head changelog.Commit
	// ReleaseCommit is the hash of the commit created by the release.
	ReleaseCommit string
	// Tag is the created tag name, empty when no tag was created.
	Tag    string
	Pushed bool
	// NewerTag is an existing release tag above Version, e.g. when a
	// maintenance release is cut from an older line.
	NewerTag string
}

func (w *Workflow) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}

func (w *Workflow) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// Next reads the current version and computes the next one without writing.
func (w *Workflow) Next(kind semver.Kind) (current, next semver.Version, err error) {
	raw, err := w.Versions.ReadVersion()
	if err != nil {
		return current, next, fmt.Errorf("reading version: %w", err)
	}
	current, err = semver.Parse(raw)
	if err != nil {
		return current, next, fmt.Errorf("%s: %w", w.Versions.Path(), err)
	}
	next, err = current.Next(kind)
	if err != nil {
		return current, next, err
	}
	return current, next, nil
}

// Bump writes the next version to the version store and nothing else.
func (w *Workflow) Bump(kind semver.Kind, dryRun bool) (*Result, error) {
	if !dryRun {
		unlock, err := AcquireLock(w.Versions.Path())
		if err != nil {
			return nil, err
		}
		defer w.unlock(unlock)
	}

	current, next, err := w.Next(kind)
	if err != nil {
		return nil, err
	}

	res := &Result{Previous: current, Version: next, Kind: kind, DryRun: dryRun}
	if dryRun {
		return res, nil
	}

	if err := w.Versions.WriteVersion(next.String()); err != nil {
		return nil, fmt.Errorf("writing version: %w", err)
	}
	w.logger().Info("version bumped",
		zap.String("from", current.String()),
		zap.String("to", next.String()),
		zap.String("kind", kind.String()))
	return res, nil
}

// Release runs the full workflow: bump the version, prepend a changelog entry
// for HEAD, then commit, tag and push as requested. A dry run renders the
// entry but writes nothing.
func (w *Workflow) Release(ctx context.Context, opts Options) (*Result, error) {
	res, err := w.release(ctx, opts)
	if err != nil {
		version := ""
		if res != nil {
			version = res.Version.String()
		}
		if !opts.DryRun && w.Notifier != nil {
			w.Notifier.OnError(ctx, version, err)
		}
		return nil, err
	}

	if !opts.DryRun {
		w.record(res)
		if w.Notifier != nil {
			w.Notifier.OnRelease(ctx, notify.ReleaseEvent{
				Version:    res.Version.String(),
				Previous:   res.Previous.String(),
				Kind:       res.Kind.String(),
				Repository: w.Repository.String(),
				Tag:        res.Tag,
				CommitURL:  w.Repository.CommitURL(res.Head.SHA),
				Author:     res.Head.Author,
			})
		}
	}
	return res, nil
}

func (w *Workflow) release(ctx context.Context, opts Options) (*Result, error) {
	if w.VCS == nil {
		return nil, ErrNoVCS
	}
	if w.Repository.IsZero() {
		return nil, ErrNoRepository
	}

	if !opts.DryRun {
		unlock, err := AcquireLock(w.Versions.Path())
		if err != nil {
			return nil, err
		}
		defer w.unlock(unlock)
	}

	current, next, err := w.Next(opts.Kind)
	if err != nil {
		return nil, err
	}
	res := &Result{Previous: current, Version: next, Kind: opts.Kind, DryRun: opts.DryRun}

	tag := opts.TagPrefix + next.String()
	if opts.Tag {
		exists, err := w.VCS.TagExists(tag)
		if err != nil {
			return res, err
		}
		if exists {
			return res, fmt.Errorf("%w: %s", ErrTagExists, tag)
		}
	}

	res.NewerTag = w.newerTag(opts.TagPrefix, next)

	head, err := w.VCS.HeadCommit()
	if err != nil {
		return res, fmt.Errorf("reading HEAD commit: %w", err)
	}
	res.Head = head

	entry, err := changelog.FormatEntry(next, head, w.Repository, w.now())
	if err != nil {
		return res, fmt.Errorf("formatting changelog entry: %w", err)
	}
	res.Entry = entry

	doc, err := w.Changelog.Load()
	if err != nil {
		return res, err
	}
	updated, err := changelog.Insert(doc, entry, w.Insert)
	if err != nil {
		return res, fmt.Errorf("updating %s: %w", w.ChangelogPath, err)
	}

	if opts.DryRun {
		return res, nil
	}

	if err := w.Versions.WriteVersion(next.String()); err != nil {
		return res, fmt.Errorf("writing version: %w", err)
	}
	if err := w.Changelog.Save(updated); err != nil {
		if rbErr := w.Versions.WriteVersion(current.String()); rbErr != nil {
			w.logger().Error("failed to restore previous version", zap.Error(rbErr))
		}
		return res, fmt.Errorf("saving changelog: %w", err)
	}
	w.logger().Info("version bumped",
		zap.String("from", current.String()),
		zap.String("to", next.String()),
		zap.String("kind", opts.Kind.String()))

	if opts.Commit {
		message := opts.CommitMessage
		if message == "" {
			message = DefaultCommitMessage
		}
		message = strings.ReplaceAll(message, VersionPlaceholder, next.String())

		hash, err := w.VCS.CommitFiles([]string{w.Versions.Path(), w.ChangelogPath}, message, w.Author)
		if err != nil {
			return res, err
		}
		res.ReleaseCommit = hash
		w.logger().Info("release committed", zap.String("commit", hash))
	}

	if opts.Tag {
		if err := w.VCS.CreateTag(tag, "Release "+next.String(), w.Author); err != nil {
			return res, err
		}
		res.Tag = tag
		w.logger().Info("release tagged", zap.String("tag", tag))
	}

	if opts.Push {
		if err := w.push(ctx, opts.Remote, res.Tag); err != nil {
			return res, err
		}
		res.Pushed = true
	}

	return res, nil
}

// newerTag returns the highest release tag if it is above next. Listing
// failures only cost the warning.
func (w *Workflow) newerTag(prefix string, next semver.Version) string {
	latest, err := w.VCS.LatestVersionTag(prefix)
	if err != nil {
		w.logger().Warn("failed to list release tags", zap.Error(err))
		return ""
	}
	if latest == "" {
		return ""
	}
	v, err := semver.Parse(strings.TrimPrefix(latest, prefix))
	if err != nil || v.Compare(next) <= 0 {
		return ""
	}
	w.logger().Warn("a newer release tag exists",
		zap.String("tag", latest),
		zap.String("version", next.String()))
	return latest
}

func (w *Workflow) push(ctx context.Context, remote, tag string) error {
	if w.Progress != nil {
		w.Progress.Start(fmt.Sprintf("Pushing to %s", remote))
		defer w.Progress.Stop()
	}
	if err := w.VCS.Push(ctx, remote, tag); err != nil {
		return err
	}
	w.logger().Info("release pushed", zap.String("remote", remote), zap.String("tag", tag))
	return nil
}

func (w *Workflow) record(res *Result) {
	if w.History == nil {
		return
	}
	w.History.Record(history.Entry{
		Timestamp: w.now().UTC(),
		Version:   res.Version.String(),
		Previous:  res.Previous.String(),
		Kind:      res.Kind.String(),
		Commit:    res.ReleaseCommit,
		Tag:       res.Tag,
	})
}

func (w *Workflow) unlock(release func() error) {
	if err := release(); err != nil {
		w.logger().Warn("failed to release lock", zap.Error(err))
	}
}
