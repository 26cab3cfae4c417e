package config

import (
	"os"
	"path/filepath"
)

const (
	appName          = "bumpver"
	projectConfigDir = ".bumpver"
	configFileName   = "config.yml"
	legacyConfigFile = "config.json"
)

// UserConfigPath returns bumpver/config.yml under os.UserConfigDir, which
// honors XDG_CONFIG_HOME on Linux.
func UserConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName, configFileName), nil
}

// ProjectConfigPath is .bumpver/config.yml, relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(projectConfigDir, configFileName)
}

// LegacyProjectConfigPath is the JSON config read before YAML support.
func LegacyProjectConfigPath() string {
	return filepath.Join(projectConfigDir, legacyConfigFile)
}
