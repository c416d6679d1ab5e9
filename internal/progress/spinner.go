package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerDelay = 100 * time.Millisecond

// Spinner displays the latest progress message. On a TTY the message
// replaces itself in place; elsewhere each distinct message is printed once.
type Spinner struct {
	mu      sync.Mutex
	out     io.Writer
	prefix  string
	spin    *spinner.Spinner
	running bool
	last    string
}

// NewSpinner returns a Spinner writing to out. The animation is used only
// when caps reports a TTY and out is os.Stdout.
func NewSpinner(out io.Writer, caps TerminalCapabilities, prefix string) *Spinner {
	sp := &Spinner{out: out, prefix: prefix}
	if caps.IsTTY && out == os.Stdout {
		symbols := SelectSymbols(caps)
		sp.spin = spinner.New(spinner.CharSets[symbols.SpinnerSet], spinnerDelay,
			spinner.WithWriter(os.Stdout),
			spinner.WithHiddenCursor(true),
		)
		sp.spin.Prefix = prefix + " "
	}
	return sp
}

// Animated reports whether the spinner animates in place.
func (sp *Spinner) Animated() bool {
	return sp.spin != nil
}

// Update shows msg as the current progress. Empty messages are ignored.
func (sp *Spinner) Update(msg string) {
	if msg == "" {
		return
	}

	sp.mu.Lock()
	defer sp.mu.Unlock()

	if msg == sp.last {
		return
	}
	sp.last = msg

	if sp.spin == nil {
		fmt.Fprintf(sp.out, "%s %s...\n", sp.prefix, msg)
		return
	}

	sp.spin.Lock()
	sp.spin.Suffix = " " + msg + "..."
	sp.spin.Unlock()
	if !sp.running {
		sp.spin.Start()
		sp.running = true
	}
}

// Last returns the most recent message.
func (sp *Spinner) Last() string {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.last
}

// Stop clears the spinner line. It is safe to call more than once.
func (sp *Spinner) Stop() {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if sp.spin != nil && sp.running {
		sp.spin.Stop()
		sp.running = false
	}
}
