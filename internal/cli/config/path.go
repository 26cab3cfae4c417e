// Package config provides the bumpver configuration commands.
package config

import (
	"fmt"
	"os"

	"github.com/patchcycle/bumpver/internal/config"
)

// getConfigPath picks the file 'config init' and 'config set' write to.
func getConfigPath(user bool) (string, error) {
	if !user {
		return config.ProjectConfigPath(), nil
	}
	return config.UserConfigPath()
}

// EnsureDirectory creates path with its parents unless it already is a
// directory. A regular file at path is an error.
func EnsureDirectory(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("path exists and is not a directory: %s", path)
	case !os.IsNotExist(err):
		return fmt.Errorf("checking path %s: %w", path, err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}
