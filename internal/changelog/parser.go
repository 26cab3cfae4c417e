package changelog

import (
	"regexp"
	"strings"
)

var (
	headingPattern = regexp.MustCompile(`^## \[([^\]]+)\](?: - (.+))?$`)
	commitPattern  = regexp.MustCompile(`^\[([^\]]*)\]\(([^)]*)\)$`)
	linkRefPattern = regexp.MustCompile(`^\[[^\]]+\]:\s`)
)

const (
	authorPrefix  = "**Author:** "
	commitPrefix  = "**Commit:** "
	messagePrefix = "**Message:** "
)

// Parse extracts the release entries of a changelog document in document
// order, which is newest first for documents maintained by Insert.
// Content before the first "## [" heading is ignored. Multi-line messages
// run until a heading, a link reference definition or a "---" rule, so a
// document footer is not read as part of the oldest message. Trailing blank
// lines are dropped.
func Parse(doc string) *Changelog {
	c := &Changelog{}
	var current *Release
	var message []string
	inMessage := false

	flush := func() {
		if current == nil {
			return
		}
		current.Message = strings.TrimRight(strings.Join(message, "\n"), "\n")
		c.Releases = append(c.Releases, *current)
		current = nil
		message = nil
		inMessage = false
	}

	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = &Release{Version: m[1], Date: strings.TrimSpace(m[2])}
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case inMessage && endsMessage(line):
			inMessage = false
		case inMessage:
			message = append(message, line)
		case strings.HasPrefix(line, authorPrefix):
			current.Author = strings.TrimPrefix(line, authorPrefix)
		case strings.HasPrefix(line, commitPrefix):
			if m := commitPattern.FindStringSubmatch(strings.TrimPrefix(line, commitPrefix)); m != nil {
				current.ShortSHA = m[1]
				current.CommitURL = m[2]
			}
		case strings.HasPrefix(line, messagePrefix):
			message = append(message, strings.TrimPrefix(line, messagePrefix))
			inMessage = true
		}
	}
	flush()

	return c
}

func endsMessage(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.TrimSpace(line) == "---" ||
		linkRefPattern.MatchString(line)
}

// NormalizeVersion normalizes a version string by removing the "v" prefix.
// This allows accepting both "v0.6.0" and "0.6.0" as input.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}
