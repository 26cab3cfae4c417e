// Package history keeps a log of the releases bumpver has performed in a YAML
// file inside the state directory.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the history file inside the state directory.
const FileName = "history.yaml"

// Entry records a single release.
type Entry struct {
	Timestamp time.Time `yaml:"timestamp"`
	Version   string    `yaml:"version"`
	Previous  string    `yaml:"previous"`
	Kind      string    `yaml:"kind"`
	// Commit is the release commit hash, empty when no commit was created.
	Commit string `yaml:"commit,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
}

// File is the on-disk layout of the history file. Entries are ordered oldest
// first.
type File struct {
	Entries []Entry `yaml:"entries"`
}

// Path returns the history file path for stateDir.
func Path(stateDir string) string {
	return filepath.Join(stateDir, FileName)
}

// LoadHistory reads the history file from stateDir.
// A missing file yields an empty history.
func LoadHistory(stateDir string) (*File, error) {
	data, err := os.ReadFile(Path(stateDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history File
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history file %s: %w", Path(stateDir), err)
	}
	return &history, nil
}

// SaveHistory writes the history file to stateDir, creating the directory if
// needed. The file is replaced atomically.
func SaveHistory(stateDir string, history *File) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	tmp, err := os.CreateTemp(stateDir, ".history-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), Path(stateDir)); err != nil {
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}

// Last returns up to n most recent entries, newest first.
// A non-positive n returns every entry.
func (f *File) Last(n int) []Entry {
	count := len(f.Entries)
	if n > 0 && n < count {
		count = n
	}

	out := make([]Entry, 0, count)
	for i := len(f.Entries) - 1; i >= 0 && len(out) < count; i-- {
		out = append(out, f.Entries[i])
	}
	return out
}
