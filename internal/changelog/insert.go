package changelog

import (
	"errors"
	"fmt"
	"strings"
)

// Marker is the line below which new entries are inserted.
const Marker = "<!-- bumpver:entries -->"

var (
	// ErrMissingMarker is returned when a non-empty document has no entry
	// marker and no fixed header length is configured.
	ErrMissingMarker = errors.New("changelog has no entry marker " + Marker)

	// ErrHeaderTooShort is returned when a fixed header length exceeds the
	// number of lines in the document.
	ErrHeaderTooShort = errors.New("changelog is shorter than the configured header")
)

// InsertOptions controls where Insert places a new entry.
type InsertOptions struct {
	// HeaderLines, when positive, places entries after that many leading lines
	// in documents that have no marker.
	HeaderLines int
	// Project names the project in the default header used for empty documents.
	Project string
}

// Insert returns doc with entry added as the newest entry.
//
// Placement, in order of precedence:
//   - directly below the Marker line, separated from it by one blank line
//   - after opts.HeaderLines leading lines, when positive
//   - below the marker of DefaultHeader, when doc is blank
//
// Any other document fails with ErrMissingMarker. Content outside the insertion
// point is preserved byte for byte.
func Insert(doc, entry string, opts InsertOptions) (string, error) {
	if pos, ok := markerEnd(doc); ok {
		return insertAtMarker(doc, pos, entry), nil
	}

	if opts.HeaderLines > 0 {
		pos, err := lineOffset(doc, opts.HeaderLines)
		if err != nil {
			return "", err
		}
		head := doc[:pos]
		if !strings.HasSuffix(head, "\n") {
			head += "\n"
		}
		return head + entry + doc[pos:], nil
	}

	if strings.TrimSpace(doc) == "" {
		header := DefaultHeader(opts.Project)
		pos, _ := markerEnd(header)
		return insertAtMarker(header, pos, entry), nil
	}

	return "", ErrMissingMarker
}

// HasMarker returns true if doc contains the entry marker line.
func HasMarker(doc string) bool {
	_, ok := markerEnd(doc)
	return ok
}

// insertAtMarker places entry after the marker line ending at pos. A single
// blank line directly after the marker is absorbed so that repeated inserts
// keep exactly one blank line between the marker and the newest entry.
func insertAtMarker(doc string, pos int, entry string) string {
	head := doc[:pos]
	if !strings.HasSuffix(head, "\n") {
		head += "\n"
	}
	rest := strings.TrimPrefix(doc[pos:], "\n")
	return head + "\n" + entry + rest
}

// markerEnd returns the offset just past the first marker line, including its
// newline when present.
func markerEnd(doc string) (int, bool) {
	offset := 0
	for offset <= len(doc) {
		end := strings.IndexByte(doc[offset:], '\n')
		var line string
		next := len(doc)
		if end < 0 {
			line = doc[offset:]
		} else {
			line = doc[offset : offset+end]
			next = offset + end + 1
		}

		if strings.TrimSpace(line) == Marker {
			return next, true
		}
		if end < 0 {
			break
		}
		offset = next
	}
	return 0, false
}

// lineOffset returns the offset just past the first n lines of doc.
func lineOffset(doc string, n int) (int, error) {
	pos := 0
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(doc[pos:], '\n')
		if idx < 0 {
			if i == n-1 && pos < len(doc) {
				return len(doc), nil
			}
			return 0, fmt.Errorf("%w: want %d lines, have %d", ErrHeaderTooShort, n, countLines(doc))
		}
		pos += idx + 1
	}
	return pos, nil
}

func countLines(doc string) int {
	if doc == "" {
		return 0
	}
	n := strings.Count(doc, "\n")
	if !strings.HasSuffix(doc, "\n") {
		n++
	}
	return n
}
