package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/patchcycle/bumpver/internal/semver"
)

// kindValue is a pflag.Value restricted to the bump kinds. The empty value
// means no kind was given.
type kindValue struct {
	kind *semver.Kind
}

var _ pflag.Value = (*kindValue)(nil)

func newKindValue(p *semver.Kind) *kindValue {
	return &kindValue{kind: p}
}

func (k *kindValue) String() string {
	if k.kind == nil {
		return ""
	}
	return string(*k.kind)
}

func (k *kindValue) Set(s string) error {
	if s == "" {
		*k.kind = ""
		return nil
	}
	kind, err := semver.ParseKind(strings.ToLower(s))
	if err != nil {
		return err
	}
	*k.kind = kind
	return nil
}

func (k *kindValue) Type() string {
	return "kind"
}

// kindNames lists the bump kinds for help text and completion.
func kindNames() []string {
	kinds := semver.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
