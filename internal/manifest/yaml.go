package manifest

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLStore is a YAML mapping with a top-level "version" scalar.
// Comments and key order survive a write.
type YAMLStore struct {
	path string
}

// Path returns the file backing the store.
func (s *YAMLStore) Path() string { return s.path }

// ReadVersion returns the top-level "version" value.
func (s *YAMLStore) ReadVersion() (string, error) {
	_, node, err := s.load()
	if err != nil {
		return "", err
	}
	return node.Value, nil
}

// WriteVersion replaces the top-level "version" value.
func (s *YAMLStore) WriteVersion(version string) error {
	doc, node, err := s.load()
	if err != nil {
		return err
	}

	node.Value = version
	node.Tag = "!!str"

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}

	return writeFileAtomic(s.path, buf.Bytes())
}

// load parses the file and returns the document and the version value node.
func (s *YAMLStore) load() (*yaml.Node, *yaml.Node, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("%s: top-level YAML value is not a mapping", s.path)
	}

	mapping := doc.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != "version" {
			continue
		}
		value := mapping.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, nil, fmt.Errorf("%s: \"version\" is not a scalar", s.path)
		}
		return &doc, value, nil
	}

	return nil, nil, fmt.Errorf("%s: %w", s.path, ErrVersionFieldMissing)
}
