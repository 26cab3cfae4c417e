package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    Kind
		wantErr bool
	}{
		"empty defaults to patch": {input: "", want: Patch},
		"major":                   {input: "major", want: Major},
		"minor":                   {input: "minor", want: Minor},
		"patch":                   {input: "patch", want: Patch},
		"capitalized":             {input: "Minor", wantErr: true},
		"unknown":                 {input: "prerelease", wantErr: true},
		"whitespace":              {input: " patch", wantErr: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseKind(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidArgument)
				var ae *ArgumentError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, tt.input, ae.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "major", Major.String())
	assert.Equal(t, "minor", Minor.String())
	assert.Equal(t, "patch", Patch.String())
	assert.Equal(t, "patch", Kind("").String())
	assert.Equal(t, "patch", Kind("bogus").String())
}
