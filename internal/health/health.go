// Package health provides the project checks behind 'bumpver doctor'. Each
// check inspects one thing a release depends on (the version file, the
// changelog, the git repository, the commit link target, the bump lock) and
// returns a structured result without modifying anything.
package health

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/patchcycle/bumpver/internal/changelog"
	"github.com/patchcycle/bumpver/internal/git"
	"github.com/patchcycle/bumpver/internal/manifest"
	"github.com/patchcycle/bumpver/internal/release"
	"github.com/patchcycle/bumpver/internal/semver"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Warning marks a passed check whose result deserves attention.
	Warning bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Target describes the project being checked.
type Target struct {
	// Dir is the project directory.
	Dir string
	// Manifest is the version file path; empty means detect it in Dir.
	Manifest string
	// ManifestFormat is the manifest format name ("" or "auto" to infer).
	ManifestFormat string
	// Changelog is the changelog file path.
	Changelog string
	// Insert holds the changelog insertion settings.
	Insert changelog.InsertOptions
	// Repository is the configured commit link target, possibly zero.
	Repository changelog.Repository
	// Remote is the git remote used to derive Repository when it is zero.
	Remote string
}

// RunHealthChecks runs all health checks against target and returns a report.
// Independent checks run concurrently; the report lists them in a fixed order.
func RunHealthChecks(target Target) *HealthReport {
	var (
		manifestCheck, lockCheck CheckResult
		changelogCheck           CheckResult
		gitCheck, repoCheck      CheckResult
		manifestPath             string
	)

	var g errgroup.Group
	g.Go(func() error {
		manifestCheck, manifestPath = CheckManifest(target)
		if manifestPath != "" {
			lockCheck = CheckLock(manifestPath)
		}
		return nil
	})
	g.Go(func() error {
		changelogCheck = CheckChangelog(target.Changelog, target.Insert)
		return nil
	})
	g.Go(func() error {
		repo, err := git.Open(target.Dir)
		gitCheck = CheckGitRepository(repo, err)
		repoCheck = CheckRepository(target.Repository, repo, target.Remote)
		return nil
	})
	_ = g.Wait()

	report := &HealthReport{
		Checks: make([]CheckResult, 0, 5),
		Passed: true,
	}
	report.add(manifestCheck)
	report.add(changelogCheck)
	report.add(gitCheck)
	report.add(repoCheck)
	if manifestPath != "" {
		report.add(lockCheck)
	}

	return report
}

func (r *HealthReport) add(check CheckResult) {
	r.Checks = append(r.Checks, check)
	if !check.Passed {
		r.Passed = false
	}
}

// CheckManifest checks that the version file exists and holds a valid
// version. It also returns the manifest path, or "" if none was found.
func CheckManifest(target Target) (CheckResult, string) {
	result := CheckResult{Name: "Version file"}

	format, err := manifest.ParseFormat(target.ManifestFormat)
	if err != nil {
		result.Message = err.Error()
		return result, ""
	}

	path := target.Manifest
	if path == "" {
		path, err = manifest.Detect(target.Dir)
		if err != nil {
			result.Message = err.Error()
			return result, ""
		}
	}

	store, err := manifest.Open(path, format)
	if err != nil {
		result.Message = err.Error()
		return result, ""
	}

	raw, err := store.ReadVersion()
	if err != nil {
		result.Message = err.Error()
		return result, path
	}

	v, err := semver.Parse(raw)
	if err != nil {
		result.Message = fmt.Sprintf("%s: %v", path, err)
		return result, path
	}

	result.Passed = true
	result.Message = fmt.Sprintf("%s (%s)", path, v)
	return result, path
}

// CheckChangelog checks that a new entry could be inserted into the changelog.
// A missing changelog passes with a warning because release creates it.
func CheckChangelog(path string, opts changelog.InsertOptions) CheckResult {
	result := CheckResult{Name: "Changelog"}

	doc, err := (&changelog.FileStore{Path: path}).Load()
	if err != nil {
		result.Message = err.Error()
		return result
	}

	if strings.TrimSpace(doc) == "" {
		result.Passed = true
		result.Warning = true
		result.Message = fmt.Sprintf("%s is missing or empty; it will be created on the next release", path)
		return result
	}

	if _, err := changelog.Insert(doc, "", opts); err != nil {
		result.Message = fmt.Sprintf("%s: %v", path, err)
		return result
	}

	result.Passed = true
	if changelog.HasMarker(doc) {
		result.Message = fmt.Sprintf("%s (entry marker found)", path)
	} else {
		result.Message = fmt.Sprintf("%s (entries go after line %d)", path, opts.HeaderLines)
	}
	return result
}

// CheckGitRepository reports on the repository returned by git.Open.
func CheckGitRepository(repo *git.Repo, openErr error) CheckResult {
	result := CheckResult{Name: "Git repository"}

	if openErr != nil {
		result.Message = openErr.Error()
		return result
	}

	head, err := repo.HeadCommit()
	if err != nil {
		if errors.Is(err, git.ErrNoCommits) {
			result.Message = fmt.Sprintf("%s has no commits yet", repo.Root())
		} else {
			result.Message = err.Error()
		}
		return result
	}

	result.Passed = true
	branch, err := repo.CurrentBranch()
	if err != nil || branch == "" {
		branch = "detached HEAD"
	}
	result.Message = fmt.Sprintf("%s on %s at %s", repo.Root(), branch, head.ShortSHA())
	return result
}

// CheckRepository checks that commit links can be built, either from
// configuration or from the remote URL.
func CheckRepository(configured changelog.Repository, repo *git.Repo, remote string) CheckResult {
	result := CheckResult{Name: "Commit links"}

	if !configured.IsZero() {
		result.Passed = true
		result.Message = fmt.Sprintf("%s (configured)", configured)
		return result
	}

	if repo == nil {
		result.Message = "repository owner and name are not configured and there is no git remote"
		return result
	}

	r, err := repo.Repository(remote)
	if err != nil {
		result.Message = fmt.Sprintf("not configured and remote %q is unusable: %v", remote, err)
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("%s (from remote %s)", r, remote)
	return result
}

// CheckLock checks for a bump lock left next to the version file.
func CheckLock(manifestPath string) CheckResult {
	result := CheckResult{Name: "Bump lock"}
	path := release.LockPath(manifestPath)

	lock, err := release.LoadLock(path)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	switch {
	case lock == nil:
		result.Passed = true
		result.Message = "not held"
	case release.IsLockStale(lock):
		result.Passed = true
		result.Warning = true
		result.Message = fmt.Sprintf("stale lock from PID %d at %s; it will be replaced", lock.PID, path)
	default:
		result.Message = fmt.Sprintf("held by PID %d since %s", lock.PID, lock.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return result
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder

	for _, check := range report.Checks {
		switch {
		case !check.Passed:
			fmt.Fprintf(&sb, "✗ %s: %s\n", check.Name, check.Message)
		case check.Warning:
			fmt.Fprintf(&sb, "! %s: %s\n", check.Name, check.Message)
		default:
			fmt.Fprintf(&sb, "✓ %s: %s\n", check.Name, check.Message)
		}
	}

	return sb.String()
}
