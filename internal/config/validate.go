package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// structValidator checks the validate tags of Configuration, reporting fields
// by their koanf key.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// releaseRule is a check that spans fields or needs more than a struct tag.
// check returns an empty string when the configuration passes.
type releaseRule struct {
	field string
	check func(cfg *Configuration) string
}

var releaseRules = []releaseRule{
	{
		field: "notifications.webhook_url",
		check: func(cfg *Configuration) string {
			if url := cfg.Notifications.WebhookURL; url != "" && structValidator.Var(url, "url") != nil {
				return "must be a valid URL"
			}
			return ""
		},
	},
	{
		field: "git.tag_prefix",
		check: func(cfg *Configuration) string {
			return checkTagPrefix(cfg.Git.TagPrefix)
		},
	},
	{
		field: "git.push",
		check: func(cfg *Configuration) string {
			if cfg.Git.Push && !cfg.Git.Commit && !cfg.Git.Tag {
				return "requires git.commit or git.tag (nothing to push)"
			}
			return ""
		},
	},
}

// checkTagPrefix rejects prefixes that cannot start a git tag name.
func checkTagPrefix(prefix string) string {
	if strings.ContainsAny(prefix, " \t") {
		return "must not contain spaces"
	}
	if i := strings.IndexAny(prefix, "~^:?*[\\"); i >= 0 {
		return fmt.Sprintf("must not contain %q (not allowed in git tag names)", prefix[i])
	}
	if strings.Contains(prefix, "..") || strings.HasPrefix(prefix, "-") || strings.HasPrefix(prefix, "/") {
		return "is not a valid start of a git tag name"
	}
	return ""
}

// ValidateYAMLSyntax checks if the YAML file has valid syntax.
// A missing or empty file is valid; syntax errors carry line/column
// information when yaml.v3 reports it.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if os.IsPermission(err) {
			return &ValidationError{FilePath: filePath, Message: "permission denied"}
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		var typeError *yaml.TypeError
		if errors.As(err, &typeError) {
			return &ValidationError{
				FilePath: filePath,
				Message:  strings.Join(typeError.Errors, "; "),
			}
		}

		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}

	return nil
}

// ValidateConfigValues checks the struct tags of cfg, then the release rules.
// The first failure is returned as a ValidationError naming the key.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	if err := structValidator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldErr := validationErrors[0]
			return &ValidationError{
				FilePath: filePath,
				Field:    fieldPath(fieldErr),
				Message:  formatValidationError(fieldErr),
			}
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	for _, rule := range releaseRules {
		if msg := rule.check(cfg); msg != "" {
			return &ValidationError{FilePath: filePath, Field: rule.field, Message: msg}
		}
	}

	return nil
}

// fieldPath returns the dotted config key of a failed field, without the
// root struct name.
func fieldPath(fieldErr validator.FieldError) string {
	ns := fieldErr.Namespace()
	if idx := strings.IndexByte(ns, '.'); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

// extractLineColumn pulls line and column numbers out of a yaml.v3 error
// message such as "yaml: line 5: could not find expected ':'".
// Returns 0, 0 if there are none.
func extractLineColumn(errMsg string) (line, column int) {
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError drops the "yaml: line X:" prefix of a yaml.v3 error.
func cleanYAMLError(errMsg string) string {
	if !strings.HasPrefix(errMsg, "yaml:") {
		return errMsg
	}
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		return errMsg[idx+2:]
	}
	return errMsg
}

func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when notifications are enabled"
	case "required_with":
		return fmt.Sprintf("is required when %s is set", strings.ToLower(fieldErr.Param()))
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be an email address"
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
