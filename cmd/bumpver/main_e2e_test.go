//go:build e2e

package main

import (
	"strings"
	"testing"

	"github.com/patchcycle/bumpver/internal/changelog"
	"github.com/patchcycle/bumpver/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReleaseProject(t *testing.T) *testutil.E2EEnv {
	t.Helper()

	env := testutil.NewE2EEnv(t)
	env.WriteFile("VERSION", "1.2.0\n")
	env.WriteFile("CHANGELOG.md", changelog.DefaultHeader("widget"))
	r := env.InitGitRepo("acme", "widget")
	env.CommitAll(r, "feat: initial import")

	return env
}

func TestE2E_Version(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("version", "--plain")

	assert.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.True(t, strings.HasPrefix(result.Stdout, "bumpver "))
}

func TestE2E_Bump(t *testing.T) {
	tests := map[string]struct {
		args     []string
		wantCode int
		wantOut  string
		wantFile string
	}{
		"patch":            {args: []string{"bump"}, wantOut: "1.2.1", wantFile: "1.2.1\n"},
		"minor":            {args: []string{"bump", "minor"}, wantOut: "1.3.0", wantFile: "1.3.0\n"},
		"major":            {args: []string{"bump", "major"}, wantOut: "2.0.0", wantFile: "2.0.0\n"},
		"dry run":          {args: []string{"bump", "major", "--dry-run"}, wantOut: "2.0.0", wantFile: "1.2.0\n"},
		"from zero patch":  {args: []string{"bump", "--from", "0.0.0"}, wantOut: "0.0.100", wantFile: "1.2.0\n"},
		"unknown kind":     {args: []string{"bump", "micro"}, wantCode: 3, wantFile: "1.2.0\n"},
		"malformed --from": {args: []string{"bump", "--from", "1.2"}, wantCode: 3, wantFile: "1.2.0\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			env.WriteFile("VERSION", "1.2.0\n")

			result := env.Run(tt.args...)

			assert.Equal(t, tt.wantCode, result.ExitCode, "stderr: %s", result.Stderr)
			if tt.wantOut != "" {
				assert.Equal(t, tt.wantOut, strings.TrimSpace(result.Stdout))
			}
			assert.Equal(t, tt.wantFile, env.ReadFile("VERSION"))
		})
	}
}

func TestE2E_ReleaseDryRun(t *testing.T) {
	env := setupReleaseProject(t)
	before := env.ReadFile("CHANGELOG.md")

	result := env.Run("release", "minor", "--dry-run")

	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Contains(t, result.Stdout, "## [1.3.0] - ")
	assert.Contains(t, result.Stdout, "**Author:** Jane Doe")
	assert.Contains(t, result.Stdout, "**Message:** feat: initial import")
	assert.Contains(t, result.Stdout, "https://github.com/acme/widget/commit/")
	assert.Equal(t, "1.2.0\n", env.ReadFile("VERSION"))
	assert.Equal(t, before, env.ReadFile("CHANGELOG.md"))
}

func TestE2E_ReleaseAndShow(t *testing.T) {
	env := setupReleaseProject(t)

	result := env.Run("release")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Contains(t, result.Stdout, "Released 1.2.1 (patch bump from 1.2.0)")
	assert.Contains(t, result.Stdout, "Tag:       v1.2.1")

	assert.Equal(t, "1.2.1\n", env.ReadFile("VERSION"))
	doc := env.ReadFile("CHANGELOG.md")
	assert.Contains(t, doc, "## [1.2.1] - ")
	assert.Less(t, strings.Index(doc, changelog.Marker), strings.Index(doc, "## [1.2.1]"))
	assert.False(t, env.FileExists(".bumpver.lock"))

	show := env.Run("changelog", "show", "1.2.1", "--plain")
	require.Equal(t, 0, show.ExitCode, "stderr: %s", show.Stderr)
	assert.Contains(t, show.Stdout, "v1.2.1")
	assert.Contains(t, show.Stdout, "feat: initial import")

	missing := env.Run("changelog", "show", "9.9.9")
	assert.Equal(t, 3, missing.ExitCode)
	assert.Contains(t, missing.Stderr, `Version "9.9.9" not found.`)

	history := env.Run("history")
	require.Equal(t, 0, history.ExitCode, "stderr: %s", history.Stderr)
	assert.Contains(t, history.Stdout, "1.2.1")
	assert.Contains(t, history.Stdout, "v1.2.1")
}

func TestE2E_ReleaseTwiceRejectsExistingTag(t *testing.T) {
	env := setupReleaseProject(t)

	first := env.Run("release", "major")
	require.Equal(t, 0, first.ExitCode, "stderr: %s", first.Stderr)

	// Resetting the manifest makes the next release collide with v2.0.0.
	env.WriteFile("VERSION", "1.2.0\n")
	second := env.Run("release", "major", "--no-commit")

	assert.Equal(t, 1, second.ExitCode)
	assert.Contains(t, second.Stderr, "v2.0.0")
	assert.Equal(t, "1.2.0\n", env.ReadFile("VERSION"))
}

func TestE2E_ChangelogEntryOutsideRepository(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	env.WriteFile("VERSION", "1.2.0\n")

	result := env.Run("changelog", "entry")

	assert.Equal(t, 1, result.ExitCode)
	assert.NotEmpty(t, result.Stderr)
}

func TestE2E_ConfigSetAndShow(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	set := env.Run("config", "set", "git.tag_prefix", "release-")
	require.Equal(t, 0, set.ExitCode, "stderr: %s", set.Stderr)

	show := env.Run("config", "show")
	require.Equal(t, 0, show.ExitCode, "stderr: %s", show.Stderr)
	assert.Contains(t, show.Stdout, "release-")

	bad := env.Run("config", "set", "git.push", "sometimes")
	assert.Equal(t, 3, bad.ExitCode)
}
