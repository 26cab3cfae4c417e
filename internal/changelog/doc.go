// Package changelog formats and records release entries for bumpver.
//
// This package implements:
//   - Release entry formatting (version, UTC timestamp, author, commit link, message)
//   - Insertion of new entries below an explicit marker, newest first
//   - Parsing of previously written entries for querying and display
//   - Terminal rendering of releases
//
// FormatEntry and Insert are pure string functions; FileStore is the only
// type that touches the file system.
package changelog
