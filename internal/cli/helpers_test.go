package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/patchcycle/bumpver/internal/changelog"
)

// Tests in this package run commands through the global rootCmd and change
// the working directory, so they cannot run in parallel.

// executeCommand runs rootCmd with args and returns the combined output.
// Flag values are reset afterwards.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { resetFlags(rootCmd) })

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setupProject changes into a fresh directory with isolated user config,
// home, state directory and BUMPVER_* environment.
func setupProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	env := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env, "xdg"))
	t.Setenv("HOME", filepath.Join(env, "home"))
	t.Setenv("GITHUB_REPOSITORY", "")
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "BUMPVER_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	t.Setenv("BUMPVER_GIT_AUTHOR_NAME", "Release Bot")
	t.Setenv("BUMPVER_GIT_AUTHOR_EMAIL", "bot@example.com")
	t.Setenv("BUMPVER_STATE_DIR", filepath.Join(env, "state"))
	chdirTest(t, dir)
	return dir
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

// stateDir returns the state directory configured by setupProject.
func stateDir() string {
	return os.Getenv("BUMPVER_STATE_DIR")
}

// initGitProject creates a repository in the working directory with VERSION
// (1.2.0) and CHANGELOG.md committed. It returns the HEAD commit hash.
func initGitProject(t *testing.T, message string) (*gogit.Repository, string) {
	t.Helper()

	repo, err := gogit.PlainInit(".", false)
	require.NoError(t, err)

	writeFile(t, "VERSION", "1.2.0\n")
	writeFile(t, "CHANGELOG.md", changelog.DefaultHeader("widget"))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	for _, name := range []string{"VERSION", "CHANGELOG.md"} {
		_, err = wt.Add(name)
		require.NoError(t, err)
	}
	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Jane Doe", Email: "jane@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return repo, hash.String()
}
