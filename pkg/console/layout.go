// Layout helpers compose larger console surfaces (run headers, failure
// summaries) from styled sections. Each Layout* function returns a
// string; the Render* variants return line slices for callers that
// interleave their own output.
package console

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dryflow/dryflow/pkg/styles"
	"github.com/dryflow/dryflow/pkg/tty"
)

// LayoutTitleBox renders a section title constrained to width columns.
func LayoutTitleBox(title string, width int) string {
	if width <= 0 {
		width = 60
	}
	if tty.IsStderrTerminal() {
		box := lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.ColorInfo).
			Padding(0, 1).
			Width(width - 2)
		return box.Render(title)
	}
	separator := strings.Repeat("=", width)
	return separator + "\n" + title + "\n" + separator
}

// LayoutInfoSection renders a label/value pair.
func LayoutInfoSection(label, value string) string {
	if tty.IsStderrTerminal() {
		return styles.Bold.Render(label+":") + " " + value
	}
	return label + ": " + value
}

// LayoutEmphasisBox renders content inside a colored border to make it
// stand out from surrounding output.
func LayoutEmphasisBox(content string, color lipgloss.AdaptiveColor) string {
	if tty.IsStderrTerminal() {
		box := lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(color).
			Padding(0, 1)
		return box.Render(content)
	}
	return content
}

// LayoutJoinVertical stacks sections top to bottom. Empty input renders
// as an empty string.
func LayoutJoinVertical(sections ...string) string {
	if len(sections) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderTitleBox returns LayoutTitleBox output as individual lines.
func RenderTitleBox(title string, width int) []string {
	return strings.Split(LayoutTitleBox(title, width), "\n")
}

// RenderErrorBox returns an error-emphasized box as individual lines.
func RenderErrorBox(title string) []string {
	return strings.Split(LayoutEmphasisBox(title, styles.ColorError), "\n")
}

// RenderInfoSection returns content as indented section lines.
func RenderInfoSection(content string) []string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, "  "+line)
	}
	return out
}

// RenderComposedSections writes pre-rendered sections to stderr,
// separated by blank lines.
func RenderComposedSections(sections []string) {
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(os.Stderr)
		}
		if section != "" {
			fmt.Fprintln(os.Stderr, section)
		}
	}
}
