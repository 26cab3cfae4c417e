package git

import (
	"context"
	"testing"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSSHURL(t *testing.T) {
	tests := map[string]struct {
		url  string
		want bool
	}{
		"scp style":  {url: "git@github.com:acme/widget.git", want: true},
		"ssh scheme": {url: "ssh://git@github.com/acme/widget.git", want: true},
		"git+ssh":    {url: "git+ssh://git@github.com/acme/widget.git", want: true},
		"https":      {url: "https://github.com/acme/widget.git", want: false},
		"local path": {url: "/srv/git/widget.git", want: false},
		"file url":   {url: "file:///srv/git/widget.git", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSSHURL(tt.url))
		})
	}
}

func TestGetAuthForURL_HTTPS(t *testing.T) {
	tests := map[string]struct {
		env  map[string]string
		want *http.BasicAuth
	}{
		"no credentials": {},
		"username and password": {
			env:  map[string]string{"GIT_USERNAME": "ci", "GIT_PASSWORD": "secret"},
			want: &http.BasicAuth{Username: "ci", Password: "secret"},
		},
		"github token": {
			env:  map[string]string{"GITHUB_TOKEN": "ghs_abc"},
			want: &http.BasicAuth{Username: "x-access-token", Password: "ghs_abc"},
		},
		"username wins over token": {
			env:  map[string]string{"GIT_USERNAME": "ci", "GIT_PASSWORD": "secret", "GITHUB_TOKEN": "ghs_abc"},
			want: &http.BasicAuth{Username: "ci", Password: "secret"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"GIT_USERNAME", "GIT_PASSWORD", "GITHUB_TOKEN"} {
				t.Setenv(key, tt.env[key])
			}

			auth := getAuthForURL("https://github.com/acme/widget.git")

			if tt.want == nil {
				assert.Nil(t, auth)
				return
			}
			assert.Equal(t, tt.want, auth)
		})
	}
}

func TestPushRefSpecs(t *testing.T) {
	dir, repo := initRepo(t, "initial")
	r, err := Open(dir)
	require.NoError(t, err)

	specs, err := r.pushRefSpecs("v1.2.3")
	require.NoError(t, err)
	assert.Equal(t, []config.RefSpec{
		"refs/heads/master:refs/heads/master",
		"refs/tags/v1.2.3:refs/tags/v1.2.3",
	}, specs)

	specs, err = r.pushRefSpecs("")
	require.NoError(t, err)
	assert.Len(t, specs, 1)

	head, err := repo.Head()
	require.NoError(t, err)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, head.Hash())))

	_, err = r.pushRefSpecs("v1.2.3")
	assert.ErrorContains(t, err, "detached HEAD")
}

func TestPush_Errors(t *testing.T) {
	dir, repo := initRepo(t, "initial")
	_, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widget.git"},
	})
	require.NoError(t, err)

	r, err := Open(dir)
	require.NoError(t, err)

	t.Run("unknown remote", func(t *testing.T) {
		err := r.Push(context.Background(), "upstream", "")
		assert.ErrorContains(t, err, `getting remote "upstream"`)
	})

	t.Run("ssh without agent", func(t *testing.T) {
		t.Setenv("SSH_AUTH_SOCK", "")
		err := r.Push(context.Background(), "origin", "v1.0.0")
		assert.ErrorIs(t, err, ErrSSHAgentUnavailable)
	})
}
