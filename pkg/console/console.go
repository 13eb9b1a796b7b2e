// Package console renders user-facing CLI output: status messages,
// positioned compiler errors, tables, trees, and progress spinners.
//
// Everything here writes plain text when the target stream is not a
// terminal, so logs and CI captures stay free of ANSI noise.
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dryflow/dryflow/pkg/styles"
	"github.com/dryflow/dryflow/pkg/tty"
)

// ErrorPosition locates an error in a source document.
type ErrorPosition struct {
	File   string
	Line   int
	Column int
}

// CompilerError is a positioned diagnostic with optional source context.
// Context holds the source lines around the error, starting one line
// before Position.Line.
type CompilerError struct {
	Position ErrorPosition
	Type     string // "error" or "warning"
	Message  string
	Hint     string
	Context  []string
}

func (e CompilerError) Error() string {
	return FormatError(e)
}

// FormatError renders a compiler error in the familiar
// file:line:column: type: message form, followed by any context lines
// with a line-number gutter.
func FormatError(err CompilerError) string {
	var b strings.Builder

	file := ToRelativePath(err.Position.File)
	header := fmt.Sprintf("%s:%d:%d: %s: %s", file, err.Position.Line, err.Position.Column, err.Type, err.Message)
	if tty.IsStderrTerminal() {
		switch err.Type {
		case "warning":
			header = fmt.Sprintf("%s:%d:%d: %s: %s", file, err.Position.Line, err.Position.Column,
				styles.Warning.Render(err.Type), err.Message)
		default:
			header = fmt.Sprintf("%s:%d:%d: %s: %s", file, err.Position.Line, err.Position.Column,
				styles.Error.Render(err.Type), err.Message)
		}
	}
	b.WriteString(header)
	b.WriteString("\n")

	if len(err.Context) > 0 {
		// Context starts one line above the error position.
		start := err.Position.Line - 1
		if start < 1 {
			start = 1
		}
		width := len(fmt.Sprintf("%d", start+len(err.Context)-1))
		for i, line := range err.Context {
			fmt.Fprintf(&b, "  %*d | %s\n", width, start+i, line)
		}
	}

	return b.String()
}

// FormatErrorWithSuggestions renders an error message followed by a
// bulleted list of remediation suggestions.
func FormatErrorWithSuggestions(message string, suggestions []string) string {
	var b strings.Builder

	icon := "✗"
	if tty.IsStderrTerminal() {
		icon = styles.Error.Render(icon)
	}
	fmt.Fprintf(&b, "%s %s\n", icon, message)

	if len(suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&b, "  • %s\n", s)
		}
	}

	return b.String()
}

// FormatSuccessMessage prefixes a message with a green checkmark.
func FormatSuccessMessage(msg string) string {
	return iconMessage("✓", styles.Success, msg)
}

// FormatInfoMessage prefixes a message with an info icon.
func FormatInfoMessage(msg string) string {
	return iconMessage("ℹ", styles.Info, msg)
}

// FormatWarningMessage prefixes a message with a warning icon.
func FormatWarningMessage(msg string) string {
	return iconMessage("⚠", styles.Warning, msg)
}

// FormatErrorMessage prefixes a message with an error icon.
func FormatErrorMessage(msg string) string {
	return iconMessage("✗", styles.Error, msg)
}

// FormatCommandMessage renders a command the user could run themselves.
func FormatCommandMessage(msg string) string {
	return iconMessage("$", styles.Muted, msg)
}

// FormatLocationMessage renders a filesystem location notice.
func FormatLocationMessage(msg string) string {
	return "📁 " + msg
}

// FormatVerboseMessage renders dimmed detail output for --verbose runs.
func FormatVerboseMessage(msg string) string {
	if tty.IsStderrTerminal() {
		return styles.Muted.Render(msg)
	}
	return msg
}

// FormatProgressMessage renders an in-progress notice.
func FormatProgressMessage(msg string) string {
	return iconMessage("…", styles.Muted, msg)
}

// FormatListItem renders a single bulleted list entry.
func FormatListItem(msg string) string {
	return "  • " + msg
}

func iconMessage(icon string, style lipgloss.Style, msg string) string {
	if tty.IsStderrTerminal() {
		return style.Render(icon) + " " + msg
	}
	return icon + " " + msg
}

// ToRelativePath converts an absolute path to one relative to the current
// working directory. Relative paths pass through unchanged, as does any
// path that cannot be made relative.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}

// FormatFileSize renders a byte count in human-readable units.
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// LogVerbose writes a dimmed message to stderr when verbose is set.
func LogVerbose(verbose bool, msg string) {
	if !verbose {
		return
	}
	fmt.Fprintln(os.Stderr, FormatVerboseMessage(msg))
}
