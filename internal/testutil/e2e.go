// Package testutil provides test utilities and helpers for bumpver tests.
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var (
	// bumpverBinaryPath caches the built bumpver binary path.
	bumpverBinaryPath string
	bumpverBuildOnce  sync.Once
	bumpverBuildErr   error
)

// E2EEnv provides an isolated environment for E2E testing.
// Each environment owns a project directory, a fake HOME and a state
// directory so the binary never reads the developer's real configuration.
type E2EEnv struct {
	t          *testing.T
	tempDir    string
	projectDir string
	binDir     string
	homeDir    string
	extraEnv   map[string]string
	cleanedUp  bool
}

// CommandResult captures the result of running a bumpver command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment with the bumpver binary
// built and copied into an isolated bin directory.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{
		t:        t,
		extraEnv: make(map[string]string),
	}

	env.setup()
	t.Cleanup(env.Cleanup)

	return env
}

func (e *E2EEnv) setup() {
	e.t.Helper()

	tempDir, err := os.MkdirTemp("", "bumpver-e2e-*")
	if err != nil {
		e.t.Fatalf("creating temp directory: %v", err)
	}
	e.tempDir = tempDir

	e.binDir = filepath.Join(tempDir, "bin")
	e.homeDir = filepath.Join(tempDir, "home")
	e.projectDir = filepath.Join(tempDir, "project")
	for _, dir := range []string{e.binDir, e.homeDir, e.projectDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			e.t.Fatalf("creating %s: %v", dir, err)
		}
	}

	e.buildBumpver()
}

func (e *E2EEnv) buildBumpver() {
	e.t.Helper()

	// Build once per test session
	bumpverBuildOnce.Do(func() {
		bumpverBinaryPath, bumpverBuildErr = doBuildBumpver()
	})

	if bumpverBuildErr != nil {
		e.t.Fatalf("building bumpver: %v", bumpverBuildErr)
	}

	content, err := os.ReadFile(bumpverBinaryPath)
	if err != nil {
		e.t.Fatalf("reading bumpver binary: %v", err)
	}

	if err := os.WriteFile(filepath.Join(e.binDir, "bumpver"), content, 0o755); err != nil {
		e.t.Fatalf("writing bumpver binary: %v", err)
	}
}

func doBuildBumpver() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	// Navigate from internal/testutil/ to repo root
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "bumpver-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "bumpver")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bumpver")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building bumpver: %w\nOutput: %s", err, output)
	}

	return binaryPath, nil
}

// Run executes a bumpver command inside the project directory.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(filepath.Join(e.binDir, "bumpver"), args...)
	cmd.Dir = e.projectDir
	cmd.Env = e.buildIsolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}

	return result
}

func (e *E2EEnv) buildIsolatedEnv() []string {
	env := []string{
		"PATH=" + e.binDir,
		"HOME=" + e.homeDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.homeDir, ".config"),
		"BUMPVER_STATE_DIR=" + e.StateDir(),
		"BUMPVER_GIT_AUTHOR_NAME=Release Bot",
		"BUMPVER_GIT_AUTHOR_EMAIL=release@example.com",
	}

	// Add safe environment variables from original environment
	for _, key := range []string{"LANG", "LC_ALL", "TMPDIR", "TMP", "TEMP"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	for key, val := range e.extraEnv {
		env = append(env, key+"="+val)
	}

	return env
}

// Setenv adds a variable to the environment of subsequent Run calls.
func (e *E2EEnv) Setenv(key, value string) {
	e.extraEnv[key] = value
}

// TempDir returns the root temp directory for this test environment.
func (e *E2EEnv) TempDir() string {
	return e.tempDir
}

// ProjectDir returns the directory commands run in.
func (e *E2EEnv) ProjectDir() string {
	return e.projectDir
}

// StateDir returns the state directory handed to the binary.
func (e *E2EEnv) StateDir() string {
	return filepath.Join(e.homeDir, ".bumpver", "state")
}

// WriteFile writes a file relative to the project directory.
func (e *E2EEnv) WriteFile(name, content string) {
	e.t.Helper()

	path := filepath.Join(e.projectDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", name, err)
	}
}

// ReadFile reads a file relative to the project directory.
func (e *E2EEnv) ReadFile(name string) string {
	e.t.Helper()

	data, err := os.ReadFile(filepath.Join(e.projectDir, name))
	if err != nil {
		e.t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

// FileExists checks if a file exists relative to the project directory.
func (e *E2EEnv) FileExists(name string) bool {
	_, err := os.Stat(filepath.Join(e.projectDir, name))
	return err == nil
}

// Cleanup removes temp files.
func (e *E2EEnv) Cleanup() {
	if e.cleanedUp {
		return
	}
	e.cleanedUp = true

	if e.tempDir != "" {
		if err := os.RemoveAll(e.tempDir); err != nil {
			e.t.Logf("note: could not remove temp directory: %v", err)
		}
	}
}

// InitGitRepo initializes a git repository in the project directory with
// an origin remote pointing at owner/repo on GitHub.
func (e *E2EEnv) InitGitRepo(owner, repo string) *gogit.Repository {
	e.t.Helper()

	r, err := gogit.PlainInit(e.projectDir, false)
	if err != nil {
		e.t.Fatalf("git init failed: %v", err)
	}

	_, err = r.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{fmt.Sprintf("https://github.com/%s/%s.git", owner, repo)},
	})
	if err != nil {
		e.t.Fatalf("creating origin remote: %v", err)
	}

	return r
}

// CommitAll stages every file in the project directory and commits it.
func (e *E2EEnv) CommitAll(r *gogit.Repository, message string) string {
	e.t.Helper()

	wt, err := r.Worktree()
	if err != nil {
		e.t.Fatalf("opening worktree: %v", err)
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		e.t.Fatalf("git add failed: %v", err)
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		e.t.Fatalf("git commit failed: %v", err)
	}

	return hash.String()
}
