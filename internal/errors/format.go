package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// palette colors the parts of a formatted error. The zero palette prints
// plain text.
type palette struct {
	label, message, category, usage, fix, bullet func(a ...interface{}) string
}

var colored = palette{
	label:    color.New(color.FgRed, color.Bold).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	usage:    color.New(color.FgCyan).SprintFunc(),
	fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
	bullet:   color.New(color.FgGreen).SprintFunc(),
}

func paint(f func(a ...interface{}) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// FormatError renders err for a terminal, colored unless color.NoColor is set.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	if color.NoColor {
		return formatError(err, false)
	}
	return formatError(err, true)
}

// FormatErrorPlain renders err without ANSI escapes.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

// formatError lays out an error as:
//
//	Error [<category>]: <message>
//
//	Usage: <usage>
//
//	To fix this:
//	  • <step>
func formatError(err *CLIError, useColors bool) string {
	var p palette
	if useColors {
		p = colored
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n",
		paint(p.label, "Error"), paint(p.category, err.Category.String()), paint(p.message, err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", paint(p.usage, "Usage: "), paint(p.usage, err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", paint(p.fix, "To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", paint(p.bullet, "•"), step)
		}
	}

	return sb.String()
}

// FprintError classifies err and prints it to w, colored only when w is a
// terminal.
func FprintError(w io.Writer, err error) {
	cliErr := Classify(err)
	if cliErr == nil {
		return
	}
	f, ok := w.(*os.File)
	if ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(w, FormatError(cliErr))
		return
	}
	fmt.Fprint(w, FormatErrorPlain(cliErr))
}
