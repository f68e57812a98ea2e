package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorMuted = lipgloss.Color("#7E8C80")
	ColorText  = lipgloss.Color("#D6E0D3")

	colorCursorFg = lipgloss.Color("#1D221E")
	colorPanel    = lipgloss.Color("#2A332C")
	colorHeading  = lipgloss.Color("#8FA082")
	colorOK       = lipgloss.Color("#a6e3a1")
	colorDanger   = lipgloss.Color("#f38ba8")
	colorFilter   = lipgloss.Color("#f9e2af")
)

// Chrome around the active table.
var (
	HeaderStyle           = lipgloss.NewStyle().Foreground(colorHeading).Bold(true).Padding(0, 1)
	BreadcrumbStyle       = lipgloss.NewStyle().Foreground(ColorMuted)
	BreadcrumbActiveStyle = lipgloss.NewStyle().Foreground(colorHeading)

	TitleStyle = lipgloss.NewStyle().
			Foreground(colorHeading).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorMuted)

	ErrorStyle     = lipgloss.NewStyle().Foreground(colorDanger).Padding(0, 1)
	SuccessStyle   = lipgloss.NewStyle().Foreground(colorOK).Padding(0, 1)
	FilterBarStyle = lipgloss.NewStyle().Foreground(colorFilter).Padding(0, 1)
	StatusBarStyle = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)
)

// Grid cells. The active header is underlined; marked rows turn red until
// they are deleted.
var (
	TableHeaderStyle  = lipgloss.NewStyle().Foreground(colorHeading).Background(colorPanel).Bold(true).Padding(0, 1)
	ActiveHeaderStyle = lipgloss.NewStyle().Foreground(ColorText).Underline(true)
	NormalRowStyle    = lipgloss.NewStyle().Foreground(ColorText)
	SelectedRowStyle  = lipgloss.NewStyle().Foreground(colorCursorFg).Background(colorHeading)
	MarkedRowStyle    = lipgloss.NewStyle().Foreground(colorDanger)
	EditorStyle       = lipgloss.NewStyle().Foreground(ColorText).Background(colorPanel)
	EmptyStateStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true).Padding(2, 4)
)

// Help screen.
var (
	LabelStyle    = lipgloss.NewStyle().Foreground(colorHeading).Bold(true)
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(colorHeading)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)
