package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

const migratedHeader = "# bumpver configuration\n# Migrated from JSON format\n\n"

// MigrationResult describes the outcome of a migration operation
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
	// Keys lists the configuration keys carried over, in schema order.
	Keys []string
	// Skipped maps keys that were dropped to the reason they were dropped.
	Skipped map[string]string
}

// MigrateJSONToYAML converts a JSON config file to YAML.
//
// Every leaf of the JSON document is checked against KnownKeys and the key's
// value type. Unknown keys and invalid values are reported in Skipped and left
// out of the YAML file. An existing YAML file is never overwritten; with
// dryRun nothing is written.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: jsonPath,
		TargetPath: yamlPath,
		DryRun:     dryRun,
		Skipped:    make(map[string]string),
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Message = fmt.Sprintf("No JSON config found at %s", jsonPath)
			return result, nil
		}
		return nil, fmt.Errorf("failed to read JSON config: %w", err)
	}

	var configData map[string]interface{}
	if err := json.Unmarshal(jsonData, &configData); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if _, err := os.Stat(yamlPath); err == nil {
		result.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return result, nil
	}

	values := make(map[string]interface{})
	for key, raw := range flattenJSON("", configData) {
		parsed, err := ValidateValue(key, raw)
		if err != nil {
			result.Skipped[key] = err.Error()
			continue
		}
		values[key] = parsed.Parsed
	}
	for _, key := range SortedKeys() {
		if _, ok := values[key]; ok {
			result.Keys = append(result.Keys, key)
		}
	}

	if dryRun {
		result.Success = true
		result.Message = fmt.Sprintf("Would migrate %s → %s (%d keys)", jsonPath, yamlPath, len(result.Keys))
		return result, nil
	}

	yamlData, err := encodeMigrated(result.Keys, values)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(yamlPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(yamlPath, yamlData, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write YAML config: %w", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Migrated %s → %s (%d keys)", jsonPath, yamlPath, len(result.Keys))
	return result, nil
}

// flattenJSON returns the leaves of a decoded JSON object keyed by dotted
// path, with each value rendered the way 'bumpver config set' accepts it.
func flattenJSON(prefix string, data map[string]interface{}) map[string]string {
	out := make(map[string]string)
	for key, value := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]interface{}:
			for k, s := range flattenJSON(path, v) {
				out[k] = s
			}
		case string:
			out[path] = v
		case bool:
			out[path] = strconv.FormatBool(v)
		case float64:
			out[path] = strconv.FormatFloat(v, 'f', -1, 64)
		case nil:
			// null means "use the default"
		default:
			out[path] = fmt.Sprint(v)
		}
	}
	return out
}

// encodeMigrated writes keys as a nested YAML document, each key preceded by
// its schema description.
func encodeMigrated(keys []string, values map[string]interface{}) ([]byte, error) {
	var root yaml.Node
	for _, key := range keys {
		keyPath, err := ParseKeyPath(key)
		if err != nil {
			return nil, err
		}
		if err := SetNestedValue(&root, keyPath, values[key]); err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", key, err)
		}
		if desc := KnownKeys[key].Description; desc != "" {
			if node := keyNode(&root, keyPath); node != nil {
				node.HeadComment = desc
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString(migratedHeader)
	if len(keys) == 0 {
		return buf.Bytes(), nil
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, fmt.Errorf("failed to convert to YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to convert to YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// keyNode returns the mapping key node of the last segment of keyPath.
func keyNode(root *yaml.Node, keyPath []string) *yaml.Node {
	parent := GetNestedValue(root, keyPath[:len(keyPath)-1])
	if len(keyPath) == 1 {
		parent = root.Content[0]
	}
	if parent == nil || parent.Kind != yaml.MappingNode {
		return nil
	}
	last := keyPath[len(keyPath)-1]
	for i := 0; i+1 < len(parent.Content); i += 2 {
		if parent.Content[i].Value == last {
			return parent.Content[i]
		}
	}
	return nil
}

// SkippedKeys returns the dropped keys in sorted order.
func (r *MigrationResult) SkippedKeys() []string {
	keys := make([]string, 0, len(r.Skipped))
	for k := range r.Skipped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MigrateProjectConfig migrates the project-level config from JSON to YAML.
func MigrateProjectConfig(dryRun bool) (*MigrationResult, error) {
	return MigrateJSONToYAML(LegacyProjectConfigPath(), ProjectConfigPath(), dryRun)
}

// RemoveLegacyConfig renames the legacy JSON config to <path>.bak. A missing
// file is not an error.
func RemoveLegacyConfig(jsonPath string, dryRun bool) error {
	if dryRun {
		return nil
	}
	if _, err := os.Stat(jsonPath); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(jsonPath, jsonPath+".bak"); err != nil {
		return fmt.Errorf("failed to backup legacy config: %w", err)
	}
	return nil
}

// DetectLegacyConfig returns the legacy project JSON config path, or an empty
// string when there is none.
func DetectLegacyConfig() string {
	projectPath := LegacyProjectConfigPath()
	if _, err := os.Stat(projectPath); err == nil {
		return projectPath
	}
	return ""
}
