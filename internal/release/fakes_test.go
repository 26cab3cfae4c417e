package release

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/patchcycle/bumpver/internal/changelog"
	"github.com/patchcycle/bumpver/internal/git"
	"github.com/patchcycle/bumpver/internal/history"
	"github.com/patchcycle/bumpver/internal/notify"
)

type memVersions struct {
	path     string
	version  string
	writes   []string
	writeErr error
}

func newMemVersions(t *testing.T, version string) *memVersions {
	t.Helper()
	return &memVersions{path: filepath.Join(t.TempDir(), "VERSION"), version: version}
}

func (m *memVersions) Path() string                 { return m.path }
func (m *memVersions) ReadVersion() (string, error) { return m.version, nil }
func (m *memVersions) WriteVersion(v string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes = append(m.writes, v)
	m.version = v
	return nil
}

type memChangelog struct {
	doc     string
	saves   int
	saveErr error
}

func (m *memChangelog) Load() (string, error) { return m.doc, nil }
func (m *memChangelog) Save(doc string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.doc = doc
	return nil
}

type fakeVCS struct {
	head       changelog.Commit
	headErr    error
	tags       map[string]bool
	commits    []fakeCommit
	pushed     []string
	pushErr    error
	commitHash string
	latest     string
	latestErr  error
}

type fakeCommit struct {
	paths   []string
	message string
}

func (f *fakeVCS) HeadCommit() (changelog.Commit, error) { return f.head, f.headErr }

func (f *fakeVCS) TagExists(name string) (bool, error) { return f.tags[name], nil }

func (f *fakeVCS) LatestVersionTag(prefix string) (string, error) { return f.latest, f.latestErr }

func (f *fakeVCS) CommitFiles(paths []string, message string, _ *git.Signature) (string, error) {
	f.commits = append(f.commits, fakeCommit{paths: paths, message: message})
	return f.commitHash, nil
}

func (f *fakeVCS) CreateTag(name, _ string, _ *git.Signature) error {
	if f.tags == nil {
		f.tags = map[string]bool{}
	}
	if f.tags[name] {
		return errors.New("tag exists")
	}
	f.tags[name] = true
	return nil
}

func (f *fakeVCS) Push(_ context.Context, remote, tag string) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushed = append(f.pushed, remote+" "+tag)
	return nil
}

type fakeNotifier struct {
	releases []notify.ReleaseEvent
	errors   []string
}

func (f *fakeNotifier) OnRelease(_ context.Context, ev notify.ReleaseEvent) {
	f.releases = append(f.releases, ev)
}

func (f *fakeNotifier) OnError(_ context.Context, version string, err error) {
	f.errors = append(f.errors, version+": "+err.Error())
}

type fakeRecorder struct {
	entries []history.Entry
}

func (f *fakeRecorder) Record(e history.Entry) { f.entries = append(f.entries, e) }

type fakeProgress struct {
	started []string
	stopped int
}

func (f *fakeProgress) Start(msg string) { f.started = append(f.started, msg) }
func (f *fakeProgress) Stop()            { f.stopped++ }
