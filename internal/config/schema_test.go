package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key     string
		value   string
		want    interface{}
		wantErr string
	}{
		"bool true":        {key: "git.push", value: "TRUE", want: true},
		"bool invalid":     {key: "git.push", value: "yes", wantErr: "invalid boolean"},
		"int":              {key: "changelog.header_lines", value: "6", want: 6},
		"int invalid":      {key: "max_history_entries", value: "many", wantErr: "invalid integer"},
		"duration":         {key: "notifications.timeout", value: "90s", want: "1m30s"},
		"duration invalid": {key: "notifications.timeout", value: "soon", wantErr: "invalid duration"},
		"enum":             {key: "manifest_format", value: "yaml", want: "yaml"},
		"enum invalid":     {key: "manifest_format", value: "xml", wantErr: "valid options"},
		"string":           {key: "git.tag_prefix", value: "rel-", want: "rel-"},
		"unknown key":      {key: "git.sign", value: "true", wantErr: "unknown configuration key: git.sign"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ValidateValue(tt.key, tt.value)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Parsed)
			assert.Equal(t, tt.value, got.Raw)
		})
	}
}

func TestConfigValueType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "duration", TypeDuration.String())
	assert.Equal(t, "enum", TypeEnum.String())
	assert.Equal(t, "unknown", ConfigValueType(42).String())
}

func TestKnownKeys_DefaultsParse(t *testing.T) {
	t.Parallel()

	for _, key := range SortedKeys() {
		schema := KnownKeys[key]
		raw := fmt.Sprint(schema.Default)
		if schema.Type == TypeString && raw == "" {
			continue
		}
		_, err := ValidateValue(key, raw)
		assert.NoError(t, err, "default of %s", key)
	}
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	keys := SortedKeys()
	assert.Len(t, keys, len(KnownKeys))
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "git.tag_prefix")
}
