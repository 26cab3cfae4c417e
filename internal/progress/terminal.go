// Package progress shows activity indicators for slow release steps.
package progress

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities says how much a spinner may draw on its output.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
}

// ProgressSymbols holds the end-of-step glyphs and the index of the
// briandowns/spinner character set to animate with.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}

const (
	unicodeSpinnerSet = 14 // ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
	asciiSpinnerSet   = 9  // | / - \
)

// DetectTerminalCapabilities inspects f. NO_COLOR turns color off and
// BUMPVER_ASCII=1 restricts output to ASCII; neither matters off a terminal.
func DetectTerminalCapabilities(f *os.File) TerminalCapabilities {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return TerminalCapabilities{}
	}
	return TerminalCapabilities{
		IsTTY:           true,
		SupportsColor:   os.Getenv("NO_COLOR") == "",
		SupportsUnicode: os.Getenv("BUMPVER_ASCII") != "1",
	}
}

// SelectSymbols returns the glyphs caps can display.
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if !caps.SupportsUnicode {
		return ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: asciiSpinnerSet}
	}
	return ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: unicodeSpinnerSet}
}
