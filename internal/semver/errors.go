package semver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVersionFormat is matched by errors returned for version strings
	// that are not three dot-separated non-negative integers.
	ErrInvalidVersionFormat = errors.New("invalid version format")

	// ErrInvalidArgument is matched by errors returned for unrecognized
	// increment kinds.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOverflow is returned when an increment would exceed the 64-bit range
	// of a version component.
	ErrOverflow = errors.New("version component overflow")
)

// FormatError reports a version string that failed to parse.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid version format %q (expected: MAJOR.MINOR.PATCH, e.g. 1.2.3)", e.Input)
}

// Is reports whether target is ErrInvalidVersionFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidVersionFormat
}

// ArgumentError reports an unrecognized increment kind.
type ArgumentError struct {
	Value string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid increment kind %q (expected one of: major, minor, patch)", e.Value)
}

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
