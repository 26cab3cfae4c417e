package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/patchcycle/bumpver/internal/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRepo = Repository{Owner: "acme", Name: "widget"}

func TestFormatEntry(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, time.July, 4, 14, 30, 25, 0, time.UTC)
	commit := Commit{
		SHA:     "abc123def456789",
		Author:  "Test Author",
		Message: "feat: add new feature",
	}

	got, err := FormatEntry(semver.MustParse("1.2.4"), commit, testRepo, ts)
	require.NoError(t, err)

	want := "## [1.2.4] - 2024-07-04 14:30:25 UTC\n" +
		"\n" +
		"**Author:** Test Author\n" +
		"**Commit:** [abc123d](https://github.com/acme/widget/commit/abc123def456789)\n" +
		"**Message:** feat: add new feature\n" +
		"\n"
	assert.Equal(t, want, got)

	for _, sub := range []string{"## [1.2.4]", "**Author:** Test Author", "[abc123d]", "/commit/abc123def456789)"} {
		assert.Contains(t, got, sub)
	}
}

func TestFormatEntryTimestampIsUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, time.January, 1, 1, 15, 0, 0, loc)
	commit := Commit{SHA: strings.Repeat("f", 40), Author: "a", Message: "m"}

	got, err := FormatEntry(semver.MustParse("0.0.100"), commit, testRepo, ts)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "## [0.0.100] - 2023-12-31 23:15:00 UTC\n"), got)
}

func TestFormatEntryVerbatimFields(t *testing.T) {
	t.Parallel()

	commit := Commit{
		SHA:     "0123456789abcdef0123456789abcdef01234567",
		Author:  "Zoë <zoe@example.com> [bot]",
		Message: "fix: escape *markdown* & <html>\n\nLong body line.",
	}

	got, err := FormatEntry(semver.MustParse("3.0.0"), commit, testRepo, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Contains(t, got, "**Author:** Zoë <zoe@example.com> [bot]\n")
	assert.Contains(t, got, "**Message:** fix: escape *markdown* & <html>\n\nLong body line.\n\n")
	assert.Contains(t, got, "[0123456](https://github.com/acme/widget/commit/0123456789abcdef0123456789abcdef01234567)")
}

func TestFormatEntryInvalidSHA(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty":       "",
		"too short":   "abc123",
		"not hex":     "zzzzzzzzzz",
		"with spaces": "abc 123def",
	}

	for name, sha := range tests {
		sha := sha
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := FormatEntry(semver.MustParse("1.0.0"), Commit{SHA: sha}, testRepo, time.Now())
			require.ErrorIs(t, err, ErrInvalidCommitSha)
			assert.Empty(t, got)

			var se *ShaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, sha, se.SHA)
		})
	}
}

func TestFormatEntryExactlySevenChars(t *testing.T) {
	t.Parallel()

	got, err := FormatEntry(semver.MustParse("1.0.0"), Commit{SHA: "abcdef0"}, testRepo, time.Now())
	require.NoError(t, err)
	assert.Contains(t, got, "[abcdef0](https://github.com/acme/widget/commit/abcdef0)")
}

func TestCommitShortSHA(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc123d", Commit{SHA: "abc123def456"}.ShortSHA())
	assert.Equal(t, "abc", Commit{SHA: "abc"}.ShortSHA())
}

func TestDefaultHeader(t *testing.T) {
	t.Parallel()

	h := DefaultHeader("widget")
	assert.True(t, strings.HasPrefix(h, "# Changelog\n"))
	assert.Contains(t, h, "All notable changes to widget")
	assert.True(t, strings.HasSuffix(h, Marker+"\n"))
	assert.Contains(t, DefaultHeader(""), "All notable changes to this project")
}
