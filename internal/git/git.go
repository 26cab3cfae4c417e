// Package git provides the repository operations bumpver needs around a
// release: reading HEAD commit metadata, resolving the GitHub owner/name from a
// remote, committing the bumped files, tagging and pushing. It uses the go-git
// library so no git CLI installation is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/patchcycle/bumpver/internal/changelog"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrNoCommits is returned when HEAD does not point at a commit yet.
var ErrNoCommits = errors.New("repository has no commits")

// Signature identifies the author of commits and tags created by bumpver.
type Signature struct {
	Name  string
	Email string
}

func (s *Signature) object() *object.Signature {
	if s == nil || s.Name == "" {
		return nil
	}
	return &object.Signature{Name: s.Name, Email: s.Email, When: time.Now()}
}

// Repo is an opened git repository.
type Repo struct {
	repo *git.Repository
	root string
}

// Open opens the git repository containing path, walking up the directory
// tree to find it. If path is empty, the current working directory is used.
func Open(path string) (*Repo, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] repository root: %s", root)
	return &Repo{repo: repo, root: root}, nil
}

// Root returns the absolute path of the worktree root.
func (r *Repo) Root() string {
	return r.root
}

// HeadCommit returns the metadata of the commit HEAD points to.
// The message is returned in full, without its trailing newline.
func (r *Repo) HeadCommit() (changelog.Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return changelog.Commit{}, ErrNoCommits
		}
		return changelog.Commit{}, fmt.Errorf("getting HEAD reference: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return changelog.Commit{}, fmt.Errorf("reading HEAD commit: %w", err)
	}

	logDebug("[git] HeadCommit: %s by %s", commit.Hash, commit.Author.Name)
	return changelog.Commit{
		SHA:     commit.Hash.String(),
		Author:  commit.Author.Name,
		Message: strings.TrimRight(commit.Message, "\n"),
	}, nil
}

// CurrentBranch returns the name of the current git branch.
// Returns empty string if in detached HEAD state.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}

	return head.Name().Short(), nil
}

// Repository resolves the GitHub owner and name from the named remote's URL.
func (r *Repo) Repository(remoteName string) (changelog.Repository, error) {
	remote, err := r.repo.Remote(remoteName)
	if err != nil {
		return changelog.Repository{}, fmt.Errorf("getting remote %q: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return changelog.Repository{}, fmt.Errorf("remote %q has no URL", remoteName)
	}

	return ParseRemoteURL(urls[0])
}

// ParseRemoteURL extracts owner and repository name from a remote URL.
// Supports https://host/owner/repo(.git), ssh://git@host/owner/repo(.git) and
// scp-style git@host:owner/repo(.git).
func ParseRemoteURL(url string) (changelog.Repository, error) {
	path := strings.TrimSpace(url)

	switch {
	case strings.Contains(path, "://"):
		path = path[strings.Index(path, "://")+3:]
		slash := strings.IndexByte(path, '/')
		if slash < 0 {
			return changelog.Repository{}, fmt.Errorf("remote URL %q has no path", url)
		}
		path = path[slash+1:]
	case strings.Contains(path, ":"):
		path = path[strings.IndexByte(path, ':')+1:]
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return changelog.Repository{}, fmt.Errorf("cannot determine owner/repository from remote URL %q", url)
	}

	return changelog.Repository{
		Owner: parts[len(parts)-2],
		Name:  parts[len(parts)-1],
	}, nil
}

// CommitFiles stages the given files and commits them.
// Paths may be absolute or relative to the current directory; they must be
// inside the worktree. A nil author falls back to the git configuration.
// Returns the new commit hash.
func (r *Repo) CommitFiles(paths []string, message string, author *Signature) (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	for _, p := range paths {
		rel, err := r.relPath(p)
		if err != nil {
			return "", err
		}
		if _, err := worktree.Add(rel); err != nil {
			return "", fmt.Errorf("staging %s: %w", rel, err)
		}
		logDebug("[git] staged %s", rel)
	}

	sig := author.object()
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	if err != nil {
		return "", fmt.Errorf("creating commit: %w", err)
	}

	logDebug("[git] CommitFiles: created %s", hash)
	return hash.String(), nil
}

// relPath converts p to a slash-separated path relative to the worktree root.
func (r *Repo) relPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	root, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		root = r.root
	}
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(resolved, filepath.Base(abs))
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository at %s", p, r.root)
	}
	return filepath.ToSlash(rel), nil
}

// TagExists reports whether a tag with the given name exists.
func (r *Repo) TagExists(name string) (bool, error) {
	_, err := r.repo.Tag(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, git.ErrTagNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("looking up tag %s: %w", name, err)
}

// CreateTag tags HEAD. A non-empty message creates an annotated tag,
// otherwise a lightweight tag is created.
func (r *Repo) CreateTag(name, message string, tagger *Signature) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	var opts *git.CreateTagOptions
	if message != "" {
		opts = &git.CreateTagOptions{
			Message: message,
			Tagger:  tagger.object(),
		}
	}

	if _, err := r.repo.CreateTag(name, head.Hash(), opts); err != nil {
		return fmt.Errorf("creating tag '%s': %w", name, err)
	}

	logDebug("[git] CreateTag: %s at %s", name, head.Hash())
	return nil
}

// LatestVersionTag returns the highest semantic version tag with the given
// prefix, or an empty string when there is none. Tags that are not valid
// semantic versions after removing the prefix, and prerelease tags, are
// ignored.
func (r *Repo) LatestVersionTag(prefix string) (string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return "", fmt.Errorf("listing tags: %w", err)
	}

	var (
		latest     string
		latestVers *semver.Version
	)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !strings.HasPrefix(name, prefix) {
			return nil
		}
		v, err := semver.StrictNewVersion(strings.TrimPrefix(name, prefix))
		if err != nil || v.Prerelease() != "" {
			return nil
		}
		if latestVers == nil || v.GreaterThan(latestVers) {
			latest, latestVers = name, v
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("iterating tags: %w", err)
	}

	logDebug("[git] LatestVersionTag(%q): %q", prefix, latest)
	return latest, nil
}
