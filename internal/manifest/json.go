package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// JSONStore is a JSON object with a top-level "version" string,
// e.g. package.json.
type JSONStore struct {
	path string
}

// Path returns the file backing the store.
func (s *JSONStore) Path() string { return s.path }

// ReadVersion returns the top-level "version" value.
func (s *JSONStore) ReadVersion() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", s.path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parsing %s: %w", s.path, err)
	}

	raw, ok := doc["version"]
	if !ok {
		return "", fmt.Errorf("%s: %w", s.path, ErrVersionFieldMissing)
	}

	var version string
	if err := json.Unmarshal(raw, &version); err != nil {
		return "", fmt.Errorf("%s: \"version\" is not a string", s.path)
	}
	return version, nil
}

// WriteVersion replaces the value of the top-level "version" key in place.
// Indentation, key order and all other values are left untouched.
func (s *JSONStore) WriteVersion(version string) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("parsing %s: invalid JSON", s.path)
	}

	start, end, err := locateVersionValue(data)
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}

	encoded, err := json.Marshal(version)
	if err != nil {
		return fmt.Errorf("encoding version: %w", err)
	}

	var out bytes.Buffer
	out.Grow(len(data) + len(encoded))
	out.Write(data[:start])
	out.Write(encoded)
	out.Write(data[end:])

	return writeFileAtomic(s.path, out.Bytes())
}

// locateVersionValue returns the byte range of the string value of the
// top-level "version" key.
func locateVersionValue(data []byte) (start, end int, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return 0, 0, fmt.Errorf("parsing JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return 0, 0, errors.New("top-level JSON value is not an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("parsing JSON: %w", err)
		}
		key, _ := keyTok.(string)
		keyEnd := int(dec.InputOffset())

		valTok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("parsing JSON: %w", err)
		}

		if _, ok := valTok.(json.Delim); ok {
			if err := skipComposite(dec); err != nil {
				return 0, 0, err
			}
			if key == "version" {
				return 0, 0, errors.New("\"version\" is not a string")
			}
			continue
		}

		if key != "version" {
			continue
		}
		if _, ok := valTok.(string); !ok {
			return 0, 0, errors.New("\"version\" is not a string")
		}

		end = int(dec.InputOffset())
		start = valueStart(data, keyEnd)
		return start, end, nil
	}

	return 0, 0, ErrVersionFieldMissing
}

// skipComposite consumes tokens up to the delimiter closing the object or
// array whose opening delimiter was just read.
func skipComposite(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err == io.EOF {
			return errors.New("unexpected end of JSON")
		}
		if err != nil {
			return fmt.Errorf("parsing JSON: %w", err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// valueStart returns the offset of the first byte of the value that follows
// the key ending at keyEnd.
func valueStart(data []byte, keyEnd int) int {
	i := keyEnd
	for i < len(data) && data[i] != ':' {
		i++
	}
	i++
	for i < len(data) && isJSONSpace(data[i]) {
		i++
	}
	return i
}

func isJSONSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
