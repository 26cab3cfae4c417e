package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
)

// LockFileName is the name of the lock file created next to the version file.
const LockFileName = ".bumpver.lock"

// ErrLocked is returned when another live process holds the bump lock.
var ErrLocked = errors.New("version file is locked by another bumpver process")

// Lock is the content of a bump lock file.
type Lock struct {
	// PID is the process ID holding the lock.
	PID int `yaml:"pid"`
	// Manifest is the version file the lock guards.
	Manifest string `yaml:"manifest"`
	// StartedAt is when the lock was acquired.
	StartedAt time.Time `yaml:"started_at"`
}

// LockedError describes the lock held by another process.
type LockedError struct {
	Path string
	Lock Lock
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s is locked by PID %d since %s (remove %s if that process is gone)",
		e.Lock.Manifest, e.Lock.PID, e.Lock.StartedAt.Format(time.RFC3339), e.Path)
}

func (e *LockedError) Is(target error) bool {
	return target == ErrLocked
}

// LockPath returns the lock file path guarding manifestPath.
func LockPath(manifestPath string) string {
	return filepath.Join(filepath.Dir(manifestPath), LockFileName)
}

// AcquireLock takes the bump lock for manifestPath. A lock left behind by a
// process that is no longer running is replaced. The returned function
// releases the lock.
func AcquireLock(manifestPath string) (func() error, error) {
	path := LockPath(manifestPath)
	lock := Lock{
		PID:       os.Getpid(),
		Manifest:  manifestPath,
		StartedAt: time.Now(),
	}

	// Two attempts: the second follows removal of a stale lock.
	for attempt := 0; attempt < 2; attempt++ {
		err := createLock(path, &lock)
		if err == nil {
			return func() error { return ReleaseLock(path) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}

		held, loadErr := LoadLock(path)
		if loadErr == nil && held != nil && !IsLockStale(held) {
			return nil, &LockedError{Path: path, Lock: *held}
		}
		if err := ReleaseLock(path); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("acquiring lock %s: %w", path, ErrLocked)
}

// ReleaseLock removes the lock file.
func ReleaseLock(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file: %w", err)
	}
	return nil
}

// LoadLock reads a lock file from disk.
// Returns nil and no error if the lock file doesn't exist.
func LoadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading lock file: %w", err)
	}

	var lock Lock
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("parsing lock file: %w", err)
	}

	return &lock, nil
}

// IsLockStale checks if a lock is stale based on PID.
// A lock is stale if the PID that created it is no longer running.
func IsLockStale(lock *Lock) bool {
	if lock == nil || lock.PID <= 0 {
		return true
	}
	return !isProcessRunning(lock.PID)
}

// isProcessRunning checks if a process with the given PID exists.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix, FindProcess always succeeds. Send signal 0 to check existence.
	err = process.Signal(syscall.Signal(0))
	return err == nil
}

// createLock publishes the lock file, failing with os.ErrExist if it is
// present. The content is written to a temporary file first and hard-linked
// into place, so the lock path never exists without its content.
func createLock(path string, lock *Lock) error {
	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("marshaling lock: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), LockFileName+".*")
	if err != nil {
		return fmt.Errorf("creating lock file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing lock file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing lock file: %w", err)
	}

	if err := os.Link(tmpPath, path); err != nil {
		if os.IsExist(err) {
			return os.ErrExist
		}
		return fmt.Errorf("creating lock file: %w", err)
	}
	return nil
}
