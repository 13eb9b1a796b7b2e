package console

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dryflow/dryflow/pkg/styles"
	"github.com/dryflow/dryflow/pkg/tty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a progress message on stderr. On non-terminal stderr
// the message is printed once and the animation is skipped.
type Spinner struct {
	mu      sync.Mutex
	message string
	active  bool
	done    chan struct{}
}

// NewSpinner returns a stopped spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{message: message}
}

// Start begins the animation. Calling Start on a running spinner is a
// no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true

	if !tty.IsStderrTerminal() {
		fmt.Fprintln(os.Stderr, s.message)
		return
	}

	s.done = make(chan struct{})
	go s.spin(s.done)
}

func (s *Spinner) spin(done chan struct{}) {
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()
			ClearLine()
			fmt.Fprintf(os.Stderr, "%s %s", styles.Info.Render(spinnerFrames[frame]), msg)
			frame = (frame + 1) % len(spinnerFrames)
		}
	}
}

// UpdateMessage swaps the message shown next to the spinner.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	if s.active && !tty.IsStderrTerminal() {
		fmt.Fprintln(os.Stderr, message)
	}
}

// Stop halts the animation and clears the spinner line.
func (s *Spinner) Stop() {
	s.stop("")
}

// StopWithMessage halts the animation and prints a final message in its
// place.
func (s *Spinner) StopWithMessage(message string) {
	s.stop(message)
}

func (s *Spinner) stop(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false

	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	ClearLine()
	if message != "" {
		fmt.Fprintln(os.Stderr, message)
	}
}
