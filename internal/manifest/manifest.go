// Package manifest reads and writes the version string stored in a project's
// version source: a package.json style JSON file, a YAML file with a top-level
// version key, or a plain VERSION file.
//
// Stores return the raw version text; parsing it is left to package semver.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format names a manifest encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ErrVersionFieldMissing is returned when a structured manifest has no
// top-level version field.
var ErrVersionFieldMissing = errors.New("manifest has no top-level \"version\" field")

// ErrNoManifest is returned by Detect when no known manifest file exists.
var ErrNoManifest = errors.New("no version manifest found")

// Store is a version source.
type Store interface {
	// Path returns the file backing the store.
	Path() string
	// ReadVersion returns the stored version string.
	ReadVersion() (string, error)
	// WriteVersion replaces the stored version string, leaving the rest of
	// the file unchanged.
	WriteVersion(version string) error
}

// candidates are the manifest names Detect looks for, in priority order.
var candidates = []string{
	"package.json",
	"VERSION",
	"version.yml",
	"version.yaml",
}

// Detect returns the path of the first known manifest file in dir.
func Detect(dir string) (string, error) {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNoManifest, dir, strings.Join(candidates, ", "))
}

// ParseFormat validates a format name. An empty name means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatYAML, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown manifest format %q (expected: auto, json, yaml, text)", s)
	}
}

// Open returns the store for path. With FormatAuto the format is chosen from
// the file extension: .json is JSON, .yml/.yaml is YAML, anything else is text.
func Open(path string, format Format) (Store, error) {
	if path == "" {
		return nil, errors.New("manifest path is empty")
	}

	if format == "" || format == FormatAuto {
		format = formatFromPath(path)
	}

	switch format {
	case FormatJSON:
		return &JSONStore{path: path}, nil
	case FormatYAML:
		return &YAMLStore{path: path}, nil
	case FormatText:
		return &TextStore{path: path}, nil
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
}

func formatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatText
	}
}

// writeFileAtomic replaces path with data via a temporary sibling file,
// keeping the permissions of the existing file.
func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
