package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// spinnerDelay is the frame interval of the spinner animation.
const spinnerDelay = 100 * time.Millisecond

// Spinner reports a slow step. On a terminal it animates a spinner next to
// the message; elsewhere it prints the message once.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols

	mu   sync.Mutex
	spin *spinner.Spinner
}

// NewSpinner returns a Spinner writing to out.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{out: out, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins reporting message. A running spinner is replaced.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	if !s.caps.IsTTY {
		fmt.Fprintf(s.out, "%s...\n", message)
		return
	}

	sp := spinner.New(spinner.CharSets[s.symbols.SpinnerSet], spinnerDelay, spinner.WithWriter(s.out))
	sp.Suffix = " " + message
	sp.FinalMSG = fmt.Sprintf("%s %s\n", s.symbols.Checkmark, message)
	if !s.caps.SupportsColor {
		sp.HideCursor = false
	}
	sp.Start()
	s.spin = sp
}

// Stop ends the current step.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Spinner) stopLocked() {
	if s.spin != nil {
		s.spin.Stop()
		s.spin = nil
	}
}
