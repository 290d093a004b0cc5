package tui

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all views.
const (
	ColorHeader    = lipgloss.Color("69")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("255")
	ColorMuted     = lipgloss.Color("240")
	ColorBorder    = lipgloss.Color("63")
	ColorWarning   = lipgloss.Color("214")
	ColorCritical  = lipgloss.Color("196")
	ColorOK        = lipgloss.Color("42")
	ColorHighlight = lipgloss.Color("212")
)

// Icons used in status columns.
const (
	IconFresh = "●"
	IconStale = "○"
)

// Shared styles for list and detail rendering.
var (
	// HeaderStyle renders section headers.
	HeaderStyle = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)

	// LabelStyle renders field labels.
	LabelStyle = lipgloss.NewStyle().Foreground(ColorLabel)

	// ValueStyle renders field values.
	ValueStyle = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	// SubtleStyle renders help text and status bars.
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	// InfoStyle renders informational banners.
	InfoStyle = lipgloss.NewStyle().Foreground(ColorOK)

	// WarningStyle renders stale entries and recoverable problems.
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	// CriticalStyle renders errors.
	CriticalStyle = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)

	// BoxStyle wraps detail views in a rounded border.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	// TableHeaderStyle styles the table header row.
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorHeader).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorBorder).
				BorderBottom(true)

	// TableSelectedStyle styles the selected table row.
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight).
				Bold(true)
)
