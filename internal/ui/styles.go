package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for selected items, borders
	ColorDanger    = "196" // Red - for warnings, errors
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorDim       = "243" // Darker gray - for very dim text
	ColorOK        = "42"  // Green - for active lamps, success
)

// Styles contains shared style definitions used across views and modals.
var Styles = struct {
	// Title styles
	Title        lipgloss.Style // Bold accent color - for main titles
	TitleWarning lipgloss.Style // Bold danger color - for error titles
	TitleSuccess lipgloss.Style // Bold green - for the success modal

	// Box styles
	Panel     lipgloss.Style // Rounded panel around camera, detection and activity
	Modal     lipgloss.Style // Modal box (highlight border, no margin so hit-testing matches)
	ModalOK   lipgloss.Style // Success modal box
	ModalFail lipgloss.Style // Error modal box

	// Text styles
	Muted   lipgloss.Style // Dimmed text (muted color)
	Normal  lipgloss.Style // Normal text (text color)
	Hint    lipgloss.Style // Help/hint text (muted color)
	Section lipgloss.Style // Panel headers (highlight color)
	Empty   lipgloss.Style // Empty state text (muted, italic)
	Points  lipgloss.Style // Point totals

	// Lamps
	LampOn  lipgloss.Style
	LampOff lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	TitleSuccess: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorOK)),
	Panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDim)).
		Padding(0, 1),
	Modal: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 3),
	ModalOK: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorOK)).
		Padding(1, 3),
	ModalFail: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 3),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Section: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Points: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	LampOn: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorOK)),
	LampOff: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
}

// materialStyle colours text with the material's registry color.
func materialStyle(hex string) lipgloss.Style {
	if hex == "" {
		return Styles.Normal.Bold(true)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hex))
}
