package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ConfigValueType is the type a config key accepts on the command line.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeDuration
	TypeString
	TypeEnum
)

var valueTypeNames = map[ConfigValueType]string{
	TypeBool:     "bool",
	TypeInt:      "int",
	TypeDuration: "duration",
	TypeString:   "string",
	TypeEnum:     "enum",
}

func (t ConfigValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ConfigKeySchema describes one settable key: its dotted path, value type,
// default and help text. AllowedValues is set for enums only.
type ConfigKeySchema struct {
	Path          string
	Type          ConfigValueType
	AllowedValues []string
	Description   string
	Default       interface{}
}

// KnownKeys holds every key 'bumpver config set' accepts, keyed by path.
var KnownKeys = registry(
	keySchema("manifest", TypeString, "", "Version file to bump (empty = detect in the working directory)"),
	enumSchema("manifest_format", "auto", "Encoding of the version file", "auto", "json", "yaml", "text"),

	keySchema("changelog.path", TypeString, "CHANGELOG.md", "Changelog document to prepend entries to"),
	keySchema("changelog.header_lines", TypeInt, 0, "Fixed header length used when the document has no entry marker (0 = require marker)"),
	keySchema("changelog.project", TypeString, "", "Project name used in a newly created changelog header"),

	keySchema("repository.owner", TypeString, "", "GitHub owner used in commit links"),
	keySchema("repository.name", TypeString, "", "GitHub repository name used in commit links"),

	keySchema("git.commit", TypeBool, true, "Commit the version file and changelog on release"),
	keySchema("git.tag", TypeBool, true, "Create an annotated tag on release"),
	keySchema("git.push", TypeBool, false, "Push branch and tag on release"),
	keySchema("git.remote", TypeString, "origin", "Remote to push to and read the repository from"),
	keySchema("git.tag_prefix", TypeString, "v", "Prefix prepended to the version to form the tag name"),
	keySchema("git.commit_message", TypeString, "chore(release): {{version}}", "Release commit message; {{version}} is replaced by the new version"),
	keySchema("git.author_name", TypeString, "", "Author name for release commits and tags (empty = git config)"),
	keySchema("git.author_email", TypeString, "", "Author email for release commits and tags"),

	keySchema("notifications.enabled", TypeBool, false, "Enable Slack notifications"),
	keySchema("notifications.webhook_url", TypeString, "", "Slack incoming webhook URL"),
	keySchema("notifications.channel", TypeString, "", "Channel override for the webhook"),
	keySchema("notifications.username", TypeString, "bumpver", "Bot name shown in Slack"),
	keySchema("notifications.on_success", TypeBool, true, "Notify when a release completes"),
	keySchema("notifications.on_error", TypeBool, true, "Notify when a release fails"),
	keySchema("notifications.timeout", TypeDuration, "10s", "Webhook request timeout"),

	keySchema("state_dir", TypeString, "~/.bumpver/state", "Directory for state files such as release history"),
	keySchema("max_history_entries", TypeInt, 500, "Maximum number of release history entries to retain"),
)

func keySchema(path string, typ ConfigValueType, def interface{}, desc string) ConfigKeySchema {
	return ConfigKeySchema{Path: path, Type: typ, Default: def, Description: desc}
}

func enumSchema(path, def, desc string, allowed ...string) ConfigKeySchema {
	s := keySchema(path, TypeEnum, def, desc)
	s.AllowedValues = allowed
	return s
}

func registry(schemas ...ConfigKeySchema) map[string]ConfigKeySchema {
	m := make(map[string]ConfigKeySchema, len(schemas))
	for _, s := range schemas {
		m[s.Path] = s
	}
	return m
}

// SortedKeys returns the known key paths in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned for a key path missing from KnownKeys.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema looks up path in KnownKeys.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue is a command-line value converted to the type its key stores.
type ParsedValue struct {
	Raw    string
	Parsed interface{}
	Type   ConfigValueType
}

// ValidateValue converts value to the type of key. Durations are normalized
// (90s becomes 1m30s) so the written YAML round-trips through koanf.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}

	parsed := ParsedValue{Raw: value, Type: schema.Type}
	switch schema.Type {
	case TypeBool:
		lower := strings.ToLower(value)
		if lower != "true" && lower != "false" {
			return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
		}
		parsed.Parsed = lower == "true"
	case TypeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
		}
		parsed.Parsed = n
	case TypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return ParsedValue{}, fmt.Errorf("invalid duration: %q (examples: 5m, 1h30m, 10s)", value)
		}
		parsed.Parsed = d.String()
	case TypeEnum:
		if !contains(schema.AllowedValues, value) {
			return ParsedValue{}, fmt.Errorf("invalid value: %q (valid options: %s)",
				value, strings.Join(schema.AllowedValues, ", "))
		}
		parsed.Parsed = value
	case TypeString:
		parsed.Parsed = value
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
	return parsed, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
