package changelog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patchcycle/bumpver/internal/semver"
)

// ShortSHALength is the number of SHA characters shown in the commit label.
const ShortSHALength = 7

// TimestampLayout is the layout of entry timestamps. Timestamps are always
// rendered in UTC.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// ErrInvalidCommitSha is matched by errors for SHAs that cannot be shortened
// to a commit label.
var ErrInvalidCommitSha = errors.New("invalid commit sha")

// ShaError reports a commit SHA that is too short or not hexadecimal.
type ShaError struct {
	SHA    string
	Reason string
}

func (e *ShaError) Error() string {
	return fmt.Sprintf("invalid commit sha %q: %s", e.SHA, e.Reason)
}

// Is reports whether target is ErrInvalidCommitSha.
func (e *ShaError) Is(target error) bool {
	return target == ErrInvalidCommitSha
}

// FormatEntry renders a single changelog entry:
//
//	## [1.2.100] - 2024-07-04 14:30:25 UTC
//
//	**Author:** Jane Doe
//	**Commit:** [abc123d](https://github.com/owner/repo/commit/abc123def456789)
//	**Message:** fix: handle empty input
//
// The entry ends with a blank line so it can be prepended to existing entries.
// Author and message are written verbatim. The SHA must be at least
// ShortSHALength hexadecimal characters; otherwise a *ShaError is returned.
func FormatEntry(v semver.Version, c Commit, repo Repository, ts time.Time) (string, error) {
	if err := ValidateSHA(c.SHA); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## [%s] - %s\n", v, ts.UTC().Format(TimestampLayout))
	b.WriteString("\n")
	fmt.Fprintf(&b, "**Author:** %s\n", c.Author)
	fmt.Fprintf(&b, "**Commit:** [%s](%s)\n", c.SHA[:ShortSHALength], repo.CommitURL(c.SHA))
	fmt.Fprintf(&b, "**Message:** %s\n", c.Message)
	b.WriteString("\n")
	return b.String(), nil
}

// ValidateSHA checks that sha can be rendered as a commit label.
func ValidateSHA(sha string) error {
	if len(sha) < ShortSHALength {
		return &ShaError{SHA: sha, Reason: fmt.Sprintf("must be at least %d characters", ShortSHALength)}
	}
	for _, r := range sha {
		if !isHex(r) {
			return &ShaError{SHA: sha, Reason: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	return nil
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// DefaultHeader returns the header written to a new changelog document.
// It ends with the entry marker, below which new entries are inserted.
func DefaultHeader(project string) string {
	subject := "this project"
	if project != "" {
		subject = project
	}
	return `# Changelog

All notable changes to ` + subject + ` will be documented in this file.

Entries are generated on release, newest first.

` + Marker + "\n"
}
