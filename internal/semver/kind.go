package semver

// Kind selects which version component an increment advances.
// The zero value increments the patch component.
type Kind string

const (
	Major Kind = "major"
	Minor Kind = "minor"
	Patch Kind = "patch"
)

// Kinds returns the recognized increment kinds in precedence order.
func Kinds() []Kind {
	return []Kind{Major, Minor, Patch}
}

// ParseKind converts a command-line selector to a Kind.
// An empty selector defaults to Patch. Anything other than "major", "minor"
// or "patch" returns an *ArgumentError.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "":
		return Patch, nil
	case Major, Minor, Patch:
		return Kind(s), nil
	default:
		return "", &ArgumentError{Value: s}
	}
}

// String returns the selector name, reporting unrecognized values as "patch"
// since that is how Next treats them.
func (k Kind) String() string {
	switch k {
	case Major, Minor:
		return string(k)
	default:
		return string(Patch)
	}
}
