package release

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAcquireLock(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "package.json")

	unlock, err := AcquireLock(manifest)
	require.NoError(t, err)

	lock, err := LoadLock(LockPath(manifest))
	require.NoError(t, err)
	require.NotNil(t, lock)
	assert.Equal(t, os.Getpid(), lock.PID)
	assert.Equal(t, manifest, lock.Manifest)
	assert.False(t, lock.StartedAt.IsZero())

	_, err = AcquireLock(manifest)
	assert.ErrorIs(t, err, ErrLocked)
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, os.Getpid(), locked.Lock.PID)

	require.NoError(t, unlock())
	lock, err = LoadLock(LockPath(manifest))
	require.NoError(t, err)
	assert.Nil(t, lock)

	unlock, err = AcquireLock(manifest)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestAcquireLock_ReplacesStaleLock(t *testing.T) {
	tests := map[string]struct {
		content func(t *testing.T) []byte
	}{
		"dead process": {
			content: func(t *testing.T) []byte {
				data, err := yaml.Marshal(Lock{PID: math.MaxInt32, Manifest: "VERSION", StartedAt: time.Now()})
				require.NoError(t, err)
				return data
			},
		},
		"corrupt file": {
			content: func(t *testing.T) []byte { return []byte("pid: [oops") },
		},
		"empty file": {
			content: func(t *testing.T) []byte { return nil },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			manifest := filepath.Join(t.TempDir(), "VERSION")
			require.NoError(t, os.WriteFile(LockPath(manifest), tc.content(t), 0o644))

			unlock, err := AcquireLock(manifest)
			require.NoError(t, err)
			defer unlock()

			lock, err := LoadLock(LockPath(manifest))
			require.NoError(t, err)
			assert.Equal(t, os.Getpid(), lock.PID)
		})
	}
}

func TestAcquireLock_Concurrent(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "VERSION")

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		unlocks []func() error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			unlock, err := AcquireLock(manifest)
			if err != nil {
				assert.ErrorIs(t, err, ErrLocked)
				return
			}
			mu.Lock()
			holders++
			unlocks = append(unlocks, unlock)
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, holders)
	for _, unlock := range unlocks {
		require.NoError(t, unlock())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "lock and temporary files are removed")
}

func TestIsLockStale(t *testing.T) {
	tests := map[string]struct {
		lock *Lock
		want bool
	}{
		"nil lock":     {lock: nil, want: true},
		"zero pid":     {lock: &Lock{PID: 0}, want: true},
		"current pid":  {lock: &Lock{PID: os.Getpid()}, want: false},
		"missing proc": {lock: &Lock{PID: math.MaxInt32}, want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsLockStale(tc.lock))
		})
	}
}

func TestLockPath(t *testing.T) {
	assert.Equal(t, filepath.Join("project", LockFileName), LockPath(filepath.Join("project", "package.json")))
}
