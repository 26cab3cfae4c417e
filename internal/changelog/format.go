package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/patchcycle/bumpver/internal/output"
)

var (
	versionStyle = color.New(color.Bold)
	dateStyle    = color.New(color.Faint)
	labelStyle   = color.New(color.FgYellow)
	shaStyle     = color.New(color.FgCyan)
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes releases to the writer with terminal styling,
// separated by blank lines.
func FormatTerminal(releases []Release, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for i := range releases {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := formatRelease(&releases[i], w, opts, width); err != nil {
			return fmt.Errorf("formatting version %s: %w", releases[i].Version, err)
		}
	}

	return nil
}

// FormatRelease writes a single release to the writer.
func FormatRelease(r *Release, w io.Writer, opts FormatOptions) error {
	return formatRelease(r, w, opts, resolveWidth(opts.MaxWidth))
}

func formatRelease(r *Release, w io.Writer, opts FormatOptions, width int) error {
	if err := writeReleaseHeader(r, w, opts); err != nil {
		return err
	}

	fields := []struct {
		label string
		value string
		style *color.Color
	}{
		{"Author", r.Author, nil},
		{"Commit", r.ShortSHA, shaStyle},
		{"Message", r.Message, nil},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := writeField(f.label, f.value, f.style, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

// writeReleaseHeader writes the version header line.
func writeReleaseHeader(r *Release, w io.Writer, opts FormatOptions) error {
	header := "v" + r.Version
	if opts.Plain {
		if r.Date != "" {
			header += " (" + r.Date + ")"
		}
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	line := versionStyle.Sprint(header)
	if r.Date != "" {
		line += " " + dateStyle.Sprint("("+r.Date+")")
	}
	_, err := fmt.Fprintf(w, "## %s\n", line)
	return err
}

// writeField writes one labelled field, wrapping long values.
func writeField(label, value string, style *color.Color, w io.Writer, opts FormatOptions, width int) error {
	prefix := fmt.Sprintf("  %-8s ", label+":")
	indent := strings.Repeat(" ", len(prefix))

	if opts.Plain {
		text := strings.ReplaceAll(value, "\n", "\n"+indent)
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	var lines []string
	for _, l := range strings.Split(value, "\n") {
		lines = append(lines, wrapText(l, width-len(prefix), indent))
	}
	text := strings.Join(lines, "\n"+indent)
	if style != nil {
		text = style.Sprint(text)
	}
	_, err := fmt.Fprintf(w, "%s%s\n", labelStyle.Sprint(prefix), text)
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	return output.GetTerminalWidth()
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatReleaseSummary returns a brief one-line summary of a release.
func FormatReleaseSummary(r Release) string {
	subject, _, _ := strings.Cut(r.Message, "\n")
	return fmt.Sprintf("%s %s %s", r.Version, r.ShortSHA, truncateText(subject, 60))
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
