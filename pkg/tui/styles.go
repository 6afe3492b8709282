package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
var (
	salmonPink = lipgloss.Color("#FFB3BA") // primary accent
	mintGreen  = lipgloss.Color("#A8E6CF") // success states
	mutedGray  = lipgloss.Color("#6B7280") // secondary text
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	statusStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)
