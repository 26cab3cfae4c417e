// Package config provides hierarchical configuration management for bumpver using koanf.
// Configuration is loaded with priority: environment variables > project config (.bumpver/config.yml)
// > user config (~/.config/bumpver/config.yml) > defaults. It supports both YAML and legacy JSON
// project configs, with a migration utility for moving from JSON to YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/patchcycle/bumpver/internal/changelog"
	"github.com/patchcycle/bumpver/internal/notify"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "BUMPVER_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the bumpver CLI tool configuration
type Configuration struct {
	// Manifest is the version file to bump. Empty means detect it in the
	// working directory. Can be set via BUMPVER_MANIFEST.
	Manifest       string `koanf:"manifest" yaml:"manifest"`
	ManifestFormat string `koanf:"manifest_format" yaml:"manifest_format" validate:"oneof=auto json yaml text"`

	Changelog  ChangelogConfig  `koanf:"changelog" yaml:"changelog"`
	Repository RepositoryConfig `koanf:"repository" yaml:"repository"`
	Git        GitConfig        `koanf:"git" yaml:"git"`

	// Notifications configures Slack notifications for releases.
	// Environment variable support via BUMPVER_NOTIFICATIONS_* prefix.
	Notifications notify.Config `koanf:"notifications" yaml:"notifications"`

	StateDir string `koanf:"state_dir" yaml:"state_dir" validate:"required"`

	// MaxHistoryEntries sets the maximum number of release history entries to retain.
	// Oldest entries are pruned when this limit is exceeded.
	// Default: 500. Can be set via BUMPVER_MAX_HISTORY_ENTRIES env var.
	MaxHistoryEntries int `koanf:"max_history_entries" yaml:"max_history_entries" validate:"min=0"`

	// Sources lists the config files and overrides that were applied, lowest
	// priority first.
	Sources []LoadedSource `koanf:"-" yaml:"-"`
}

// ChangelogConfig controls where and how entries are written.
type ChangelogConfig struct {
	Path        string `koanf:"path" yaml:"path" validate:"required"`
	HeaderLines int    `koanf:"header_lines" yaml:"header_lines" validate:"min=0"`
	Project     string `koanf:"project" yaml:"project"`
}

// RepositoryConfig names the GitHub repository used in commit links.
type RepositoryConfig struct {
	Owner string `koanf:"owner" yaml:"owner" validate:"required_with=Name"`
	Name  string `koanf:"name" yaml:"name" validate:"required_with=Owner"`
}

// GitConfig controls the version control steps of a release.
type GitConfig struct {
	Commit        bool   `koanf:"commit" yaml:"commit"`
	Tag           bool   `koanf:"tag" yaml:"tag"`
	Push          bool   `koanf:"push" yaml:"push"`
	Remote        string `koanf:"remote" yaml:"remote" validate:"required"`
	TagPrefix     string `koanf:"tag_prefix" yaml:"tag_prefix"`
	CommitMessage string `koanf:"commit_message" yaml:"commit_message"`
	AuthorName    string `koanf:"author_name" yaml:"author_name"`
	AuthorEmail   string `koanf:"author_email" yaml:"author_email" validate:"omitempty,email"`
}

// LoadedSource records one applied configuration layer.
type LoadedSource struct {
	Source ConfigSource
	Path   string
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .bumpver/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: XDG config dir)
	UserConfigPath string
	// SkipUserConfig ignores the user-level config file
	SkipUserConfig bool
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
//
// Config paths:
//   - User config: ~/.config/bumpver/config.yml (XDG compliant)
//   - Project config: .bumpver/config.yml
//   - Legacy project config: .bumpver/config.json (deprecated, triggers migration warning)
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)
	sources := []LoadedSource{{Source: SourceDefault}}

	loadDefaults(k)

	if !opts.SkipUserConfig {
		path, err := loadUserConfig(k, opts.UserConfigPath)
		if err != nil {
			return nil, err
		}
		if path != "" {
			sources = append(sources, LoadedSource{Source: SourceUser, Path: path})
		}
	}

	path, err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings)
	if err != nil {
		return nil, err
	}
	if path != "" {
		sources = append(sources, LoadedSource{Source: SourceProject, Path: path})
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}
	if hasEnvOverrides() {
		sources = append(sources, LoadedSource{Source: SourceEnv})
	}

	cfg, err := finalizeConfig(k)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources
	return cfg, nil
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if it exists and returns its path.
func loadUserConfig(k *koanf.Koanf, customPath string) (string, error) {
	userPath := customPath
	if userPath == "" {
		userPath, _ = UserConfigPath()
	}
	if !fileExists(userPath) {
		return "", nil
	}
	if err := loadYAMLConfig(k, userPath, "user"); err != nil {
		return "", fmt.Errorf("loading user YAML config: %w", err)
	}
	return userPath, nil
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
// Supports custom path override. Falls back to legacy JSON with warning.
// Warns if both exist (YAML used, JSON ignored).
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) (string, error) {
	projectYAMLPath := ProjectConfigPath()
	if customPath != "" {
		projectYAMLPath = customPath
	}
	legacyProjectPath := LegacyProjectConfigPath()

	projectYAMLExists := fileExists(projectYAMLPath)
	legacyProjectExists := fileExists(legacyProjectPath)

	if customPath != "" && !projectYAMLExists {
		return "", fmt.Errorf("config file %s not found", customPath)
	}

	if projectYAMLExists {
		if err := loadYAMLConfig(k, projectYAMLPath, "project"); err != nil {
			return "", fmt.Errorf("loading project YAML config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyProjectPath, projectYAMLPath, legacyProjectExists, skipWarnings)
		return projectYAMLPath, nil
	}
	if legacyProjectExists {
		if err := loadLegacyJSONConfig(k, legacyProjectPath, warningWriter, skipWarnings); err != nil {
			return "", fmt.Errorf("loading legacy project JSON config: %w", err)
		}
		return legacyProjectPath, nil
	}
	return "", nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadLegacyJSONConfig loads legacy JSON and warns about migration
func loadLegacyJSONConfig(k *koanf.Koanf, path string, warningWriter io.Writer, skipWarnings bool) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load legacy project config %s: %w", path, err)
	}
	if !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", path)
		fmt.Fprintf(warningWriter, "  Run 'bumpver config migrate' to migrate to YAML format.\n\n")
	}
	return nil
}

// warnLegacyExists warns if legacy JSON exists alongside new YAML
func warnLegacyExists(warningWriter io.Writer, legacyPath, yamlPath string, legacyExists, skipWarnings bool) {
	if legacyExists && !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
		fmt.Fprintf(warningWriter, "  Run 'bumpver config migrate' to remove the legacy file.\n\n")
	}
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// hasEnvOverrides reports whether any BUMPVER_* variable maps to a known key.
func hasEnvOverrides() bool {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) {
			if _, ok := KnownKeys[envTransform(name)]; ok {
				return true
			}
		}
	}
	return false
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyRepositoryFallback(&cfg, os.Getenv("GITHUB_REPOSITORY"))

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)

	return &cfg, nil
}

// applyRepositoryFallback fills an unset repository from an "owner/name" value
// such as GITHUB_REPOSITORY.
func applyRepositoryFallback(cfg *Configuration, ownerName string) {
	if cfg.Repository.Owner != "" || cfg.Repository.Name != "" {
		return
	}
	owner, name, ok := strings.Cut(strings.TrimSpace(ownerName), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return
	}
	cfg.Repository = RepositoryConfig{Owner: owner, Name: name}
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Underscores separate both words and nesting levels, so the name is matched
// against the known keys: BUMPVER_GIT_TAG_PREFIX -> git.tag_prefix.
// Unknown names map to their lowercased form and are ignored on unmarshal.
func envTransform(s string) string {
	name := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for key := range KnownKeys {
		if strings.ReplaceAll(key, ".", "_") == name {
			return key
		}
	}
	return name
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// ChangelogRepository returns the configured repository for commit links.
func (c *Configuration) ChangelogRepository() changelog.Repository {
	return changelog.Repository{Owner: c.Repository.Owner, Name: c.Repository.Name}
}

// InsertOptions returns the changelog insertion settings.
func (c *Configuration) InsertOptions() changelog.InsertOptions {
	return changelog.InsertOptions{
		HeaderLines: c.Changelog.HeaderLines,
		Project:     c.Changelog.Project,
	}
}
