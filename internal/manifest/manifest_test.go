package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestOpenSelectsFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path   string
		format Format
		want   any
	}{
		"json by extension":  {path: "package.json", format: FormatAuto, want: &JSONStore{}},
		"yaml by extension":  {path: "version.yml", format: FormatAuto, want: &YAMLStore{}},
		"yaml long ext":      {path: "meta.YAML", format: "", want: &YAMLStore{}},
		"text by default":    {path: "VERSION", format: FormatAuto, want: &TextStore{}},
		"explicit overrides": {path: "version.json", format: FormatText, want: &TextStore{}},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store, err := Open(tt.path, tt.format)
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
			assert.Equal(t, tt.path, store.Path())
		})
	}
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	_, err := Open("", FormatAuto)
	assert.Error(t, err)

	_, err = Open("VERSION", Format("toml"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    Format
		wantErr bool
	}{
		"empty":   {input: "", want: FormatAuto},
		"json":    {input: "json", want: FormatJSON},
		"upper":   {input: "YAML", want: FormatYAML},
		"text":    {input: "text", want: FormatText},
		"unknown": {input: "toml", wantErr: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	t.Run("priority order", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "VERSION", "1.0.0\n")
		writeFile(t, dir, "package.json", `{"version":"1.0.0"}`)

		got, err := Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "package.json"), got)
	})

	t.Run("directory named like manifest is skipped", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "package.json"), 0o755))
		writeFile(t, dir, "version.yaml", "version: 1.0.0\n")

		got, err := Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "version.yaml"), got)
	})

	t.Run("none found", func(t *testing.T) {
		t.Parallel()
		_, err := Detect(t.TempDir())
		assert.ErrorIs(t, err, ErrNoManifest)
	})
}

func TestTextStore(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    string
	}{
		"newline":         {content: "1.2.0\n", want: "1.2.0"},
		"crlf":            {content: "1.2.0\r\n", want: "1.2.0"},
		"no newline":      {content: "1.2.0", want: "1.2.0"},
		"inner spaces":    {content: " 1.2.0 \n", want: " 1.2.0 "},
		"multiple blanks": {content: "1.2.0\n\n", want: "1.2.0"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), "VERSION", tt.content)
			store := &TextStore{path: path}

			got, err := store.ReadVersion()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			require.NoError(t, store.WriteVersion("1.2.100"))
			assert.Equal(t, "1.2.100\n", readFile(t, path))
		})
	}
}

func TestTextStoreMissingFile(t *testing.T) {
	t.Parallel()

	store := &TextStore{path: filepath.Join(t.TempDir(), "VERSION")}
	_, err := store.ReadVersion()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteKeepsPermissions(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "VERSION", "1.0.0\n")
	require.NoError(t, os.Chmod(path, 0o640))

	require.NoError(t, (&TextStore{path: path}).WriteVersion("1.0.100"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
