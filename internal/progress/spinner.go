package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner animates a status line on a terminal and prints a final
// checkmark or failure line. On non-terminals only the final line is
// printed.
type Spinner struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	s       *spinner.Spinner
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{w: w, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins animating msg. It is a no-op on non-terminals.
func (p *Spinner) Start(msg string) {
	if !p.caps.IsTTY {
		return
	}
	p.s = spinner.New(spinner.CharSets[p.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(p.w))
	p.s.Suffix = " " + msg
	p.s.Start()
}

// Succeed stops the animation and prints msg with a checkmark.
func (p *Spinner) Succeed(msg string) {
	p.stop()
	fmt.Fprintf(p.w, "%s %s\n", p.symbols.Checkmark, msg)
}

// Fail stops the animation and prints msg with a failure marker.
func (p *Spinner) Fail(msg string) {
	p.stop()
	fmt.Fprintf(p.w, "%s %s\n", p.symbols.Failure, msg)
}

func (p *Spinner) stop() {
	if p.s != nil {
		p.s.Stop()
		p.s = nil
	}
}
