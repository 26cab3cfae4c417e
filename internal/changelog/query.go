package changelog

import (
	"fmt"
	"strings"
)

// Changelog is the parsed set of release entries of a document.
type Changelog struct {
	Releases []Release
}

// ReleaseNotFoundError is returned when a requested version doesn't exist.
type ReleaseNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *ReleaseNotFoundError) Error() string {
	if len(e.AvailableVersions) == 0 {
		return fmt.Sprintf("version %q not found (changelog has no releases)", e.Version)
	}
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// GetRelease retrieves the newest entry for a version.
// Accepts both "v1.2.3" and "1.2.3" formats.
func (c *Changelog) GetRelease(version string) (*Release, error) {
	normalized := NormalizeVersion(version)

	for i := range c.Releases {
		if NormalizeVersion(c.Releases[i].Version) == normalized {
			return &c.Releases[i], nil
		}
	}

	return nil, &ReleaseNotFoundError{
		Version:           version,
		AvailableVersions: c.ListVersions(),
	}
}

// ListVersions returns the version of every entry in document order.
func (c *Changelog) ListVersions() []string {
	versions := make([]string, len(c.Releases))
	for i, r := range c.Releases {
		versions[i] = r.Version
	}
	return versions
}

// GetLastN returns the N newest entries.
// If N is greater than the number of entries, all entries are returned.
func (c *Changelog) GetLastN(n int) []Release {
	if n <= 0 {
		return []Release{}
	}
	if len(c.Releases) <= n {
		return c.Releases
	}
	return c.Releases[:n]
}

// Latest returns the newest entry, or nil for an empty changelog.
func (c *Changelog) Latest() *Release {
	if len(c.Releases) == 0 {
		return nil
	}
	return &c.Releases[0]
}

// Count returns the number of entries.
func (c *Changelog) Count() int {
	return len(c.Releases)
}
