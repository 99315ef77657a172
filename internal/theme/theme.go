// Package theme provides the color definitions for the review screen and
// the colored terminal output.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used in the application UI.
type Theme struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color // Foreground color for text on Accent background
	AccentDim lipgloss.Color
	Border    lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
	Cyan      lipgloss.Color
	Yellow    lipgloss.Color
}

// Default returns the default dark theme.
func Default() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"), // Purple (primary accent)
		AccentFg:  lipgloss.Color("#282A36"), // Dark text on accent
		AccentDim: lipgloss.Color("#44475A"), // Current line / selection
		Border:    lipgloss.Color("#6272A4"), // Subtle borders
		MutedFg:   lipgloss.Color("#6272A4"), // Muted text
		TextFg:    lipgloss.Color("#F8F8F2"), // Primary text
		SuccessFg: lipgloss.Color("#50FA7B"), // Green (success)
		WarnFg:    lipgloss.Color("#FFB86C"), // Orange (warning)
		ErrorFg:   lipgloss.Color("#FF5555"), // Red (error)
		Cyan:      lipgloss.Color("#8BE9FD"), // Cyan (info/secondary)
		Yellow:    lipgloss.Color("#F1FA8C"), // Yellow (highlight)
	}
}
