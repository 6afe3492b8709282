package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color Palette
// Basic ANSI colors so the board reads the same in any terminal the
// control client prints to.
var (
	innocentGreen = lipgloss.Color("2")
	criminalRed   = lipgloss.Color("1")
)

// styles holds the per-status styles for one color profile.
type styles struct {
	coordinate lipgloss.Style
	innocent   lipgloss.Style
	criminal   lipgloss.Style
	unknown    lipgloss.Style
}

func newStyles(profile termenv.Profile) styles {
	// Output goes into HTTP responses, not a terminal, so the profile is
	// set explicitly instead of being detected.
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(true)

	return styles{
		coordinate: r.NewStyle().Faint(true),
		innocent:   r.NewStyle().Foreground(innocentGreen),
		criminal:   r.NewStyle().Foreground(criminalRed),
		unknown:    r.NewStyle().Faint(true),
	}
}
