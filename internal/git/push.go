package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// DefaultPushTimeout bounds a push when the caller's context has no deadline.
const DefaultPushTimeout = 60 * time.Second

// ErrSSHAgentUnavailable is returned when pushing to an SSH remote without a
// running SSH agent.
var ErrSSHAgentUnavailable = errors.New("SSH agent not available (SSH_AUTH_SOCK not set)")

// Push pushes the current branch and the given tag to the named remote.
// An empty tag pushes only the branch. A remote that is already up to date is
// not an error.
func (r *Repo) Push(ctx context.Context, remoteName, tag string) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPushTimeout)
		defer cancel()
	}

	remote, err := r.repo.Remote(remoteName)
	if err != nil {
		return fmt.Errorf("getting remote %q: %w", remoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return fmt.Errorf("remote %q has no URL", remoteName)
	}

	url := urls[0]
	if isSSHURL(url) && !isSSHAgentAvailable() {
		logDebug("[git] Push: skipping SSH auth for %s", url)
		return fmt.Errorf("pushing to %s: %w", remoteName, ErrSSHAgentUnavailable)
	}

	refSpecs, err := r.pushRefSpecs(tag)
	if err != nil {
		return err
	}

	logDebug("[git] Push: %s %v", remoteName, refSpecs)
	err = r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   refSpecs,
		Auth:       getAuthForURL(url),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("pushing to %s: timed out", remoteName)
		}
		return fmt.Errorf("pushing to %s: %w", remoteName, err)
	}
	return nil
}

func (r *Repo) pushRefSpecs(tag string) ([]config.RefSpec, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return nil, fmt.Errorf("cannot push from detached HEAD")
	}

	branch := head.Name().String()
	specs := []config.RefSpec{config.RefSpec(branch + ":" + branch)}
	if tag != "" {
		ref := "refs/tags/" + tag
		specs = append(specs, config.RefSpec(ref+":"+ref))
	}
	return specs, nil
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// Uses SSH agent for SSH URLs, environment credentials for HTTPS.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	// For HTTPS, try environment credentials
	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			// GitHub accepts any non-empty username with a token as password
			username, password = "x-access-token", token
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}

	return nil
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// isSSHAgentAvailable checks if an SSH agent is available.
// Returns true only if SSH_AUTH_SOCK is set and non-empty.
func isSSHAgentAvailable() bool {
	sock := strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK"))
	return sock != ""
}
