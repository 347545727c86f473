package tui

import "github.com/charmbracelet/lipgloss"

// Palette of the run reports. ANSI 256 codes so that plain terminals
// degrade gracefully.
var (
	ColorPrimary   = lipgloss.Color("39")
	ColorSecondary = lipgloss.Color("245")
	ColorSuccess   = lipgloss.Color("34")
	ColorWarning   = lipgloss.Color("214")
	ColorError     = lipgloss.Color("196")
	ColorMuted     = lipgloss.Color("240")
)

var (
	// TitleStyle marks table names and grid headers.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// BoxStyle frames a run summary.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	LabelStyle       = lipgloss.NewStyle().Foreground(ColorSecondary)
	ValueStyle       = lipgloss.NewStyle()
	DescriptionStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	// Outcome styles: completed, failed, and runs that wrote nothing.
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
)

// Outcome symbols.
const (
	SymbolCheck = "✓"
	SymbolCross = "✗"
	SymbolSkip  = "○"
)
