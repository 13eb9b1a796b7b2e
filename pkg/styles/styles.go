// Package styles centralizes the lipgloss colors and text styles used by
// console output so every command renders with the same palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Adaptive colors pick a readable variant for light and dark terminals.
var (
	ColorError   = lipgloss.AdaptiveColor{Light: "#d70000", Dark: "#ff5f5f"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#af8700", Dark: "#ffd700"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5fd75f"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#0087af", Dark: "#5fd7ff"}
	ColorPurple  = lipgloss.AdaptiveColor{Light: "#8700af", Dark: "#af87ff"}
	ColorYellow  = lipgloss.AdaptiveColor{Light: "#af8700", Dark: "#ffff5f"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6c6c6c", Dark: "#9e9e9e"}
)

// Text styles shared across commands.
var (
	Error   = lipgloss.NewStyle().Foreground(ColorError)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)
	Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	Info    = lipgloss.NewStyle().Foreground(ColorInfo)
	Muted   = lipgloss.NewStyle().Foreground(ColorMuted)
	Bold    = lipgloss.NewStyle().Bold(true)
)
