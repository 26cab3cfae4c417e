package semver

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// FirstPatch is the patch number assigned when a patch cycle starts from zero.
const FirstPatch = 100

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Version is an immutable MAJOR.MINOR.PATCH triplet.
// Each component is limited to the uint64 range.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// Parse parses a strict dotted triplet. Prefixes such as "v", surrounding
// whitespace, pre-release suffixes and any other shape return a *FormatError.
// Leading zeros are accepted and dropped on rendering ("01.2.3" is 1.2.3).
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &FormatError{Input: s}
	}

	var parts [3]uint64
	for i := range parts {
		n, err := strconv.ParseUint(m[i+1], 10, 64)
		if err != nil {
			return Version{}, &FormatError{Input: s}
		}
		parts[i] = n
	}

	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Next returns the version that follows v for the given kind.
//
//	major: (major+1, 0, 0)
//	minor: (major, minor+1, 0)
//	patch: (major, minor, 100) when patch is 0, otherwise (major, minor, patch+1)
//
// Unrecognized kinds are treated as patch.
func (v Version) Next(kind Kind) (Version, error) {
	switch kind {
	case Major:
		if v.Major == math.MaxUint64 {
			return Version{}, fmt.Errorf("incrementing major of %s: %w", v, ErrOverflow)
		}
		return Version{Major: v.Major + 1}, nil
	case Minor:
		if v.Minor == math.MaxUint64 {
			return Version{}, fmt.Errorf("incrementing minor of %s: %w", v, ErrOverflow)
		}
		return Version{Major: v.Major, Minor: v.Minor + 1}, nil
	default:
		return v.nextPatch()
	}
}

// nextPatch starts a patch cycle at FirstPatch, then counts up by one.
// Crossing into a new hundred (199 -> 200) is a plain increment.
func (v Version) nextPatch() (Version, error) {
	next := v
	switch {
	case v.Patch == 0:
		next.Patch = FirstPatch
	case v.Patch == math.MaxUint64:
		return Version{}, fmt.Errorf("incrementing patch of %s: %w", v, ErrOverflow)
	default:
		next.Patch = v.Patch + 1
	}
	return next, nil
}

// NextVersion parses current and kind and returns the next version string.
// It fails with ErrInvalidArgument for an unrecognized kind and with
// ErrInvalidVersionFormat for a malformed version; no partial result is returned.
func NextVersion(current, kind string) (string, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return "", err
	}

	v, err := Parse(current)
	if err != nil {
		return "", err
	}

	next, err := v.Next(k)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}

// Compare returns -1, 0 or 1 when v is lower than, equal to or higher than o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpUint(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpUint(v.Minor, o.Minor)
	default:
		return cmpUint(v.Patch, o.Patch)
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
