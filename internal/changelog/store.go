package changelog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore reads and writes a changelog document on disk.
type FileStore struct {
	Path string
}

// Load returns the document content. A missing file yields an empty document.
func (s FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading changelog %s: %w", s.Path, err)
	}
	return string(data), nil
}

// Save replaces the document content, creating parent directories as needed.
// The file is written to a temporary sibling and renamed into place.
func (s FileStore) Save(doc string) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating changelog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".changelog-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("writing changelog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting changelog permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replacing changelog %s: %w", s.Path, err)
	}
	return nil
}
