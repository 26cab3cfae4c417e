package manifest

import (
	"fmt"
	"os"
	"strings"
)

// TextStore is a plain file holding only the version, e.g. VERSION.
type TextStore struct {
	path string
}

// Path returns the file backing the store.
func (s *TextStore) Path() string { return s.path }

// ReadVersion returns the file content without its line terminator.
// Other whitespace is kept so that malformed files fail version parsing.
func (s *TextStore) ReadVersion() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", s.path, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// WriteVersion writes the version followed by a newline.
func (s *TextStore) WriteVersion(version string) error {
	return writeFileAtomic(s.path, []byte(version+"\n"))
}
