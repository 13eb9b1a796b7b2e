// Package tty answers "is this stream a terminal" questions for console
// rendering decisions. Styled output and cursor control are only emitted
// when the target stream is an interactive terminal.
package tty

import (
	"os"

	"golang.org/x/term"

	"github.com/dryflow/dryflow/pkg/constants"
)

// colorDisabled honors the no-color knob: when set, streams report as
// non-terminals so all rendering stays plain.
func colorDisabled() bool {
	return os.Getenv(constants.NoColorEnv) != ""
}

// IsStdoutTerminal reports whether stdout is attached to a terminal.
func IsStdoutTerminal() bool {
	return !colorDisabled() && term.IsTerminal(int(os.Stdout.Fd()))
}

// IsStderrTerminal reports whether stderr is attached to a terminal.
func IsStderrTerminal() bool {
	return !colorDisabled() && term.IsTerminal(int(os.Stderr.Fd()))
}

// StderrWidth returns the column width of the stderr terminal, or the
// given fallback when stderr is not a terminal or the size is unknown.
func StderrWidth(fallback int) int {
	if !IsStderrTerminal() {
		return fallback
	}
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
