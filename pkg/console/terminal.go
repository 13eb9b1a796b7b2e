package console

import (
	"fmt"
	"os"

	"github.com/dryflow/dryflow/pkg/tty"
)

// ClearScreen clears the terminal and homes the cursor. No-op when
// stdout is not a terminal.
func ClearScreen() {
	if !tty.IsStdoutTerminal() {
		return
	}
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}

// ClearLine erases the current stderr line. No-op when stderr is not a
// terminal.
func ClearLine() {
	if !tty.IsStderrTerminal() {
		return
	}
	fmt.Fprint(os.Stderr, "\r\033[K")
}

// MoveCursorUp moves the stderr cursor up by lines. No-op for lines <= 0
// or when stderr is not a terminal.
func MoveCursorUp(lines int) {
	if lines <= 0 || !tty.IsStderrTerminal() {
		return
	}
	fmt.Fprintf(os.Stderr, "\033[%dA", lines)
}

// MoveCursorDown moves the stderr cursor down by lines. No-op for
// lines <= 0 or when stderr is not a terminal.
func MoveCursorDown(lines int) {
	if lines <= 0 || !tty.IsStderrTerminal() {
		return
	}
	fmt.Fprintf(os.Stderr, "\033[%dB", lines)
}
