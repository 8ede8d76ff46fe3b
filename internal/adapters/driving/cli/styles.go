package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette used for terminal output.
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6C7086")
	colorSuccess = lipgloss.Color("#A6E3A1")
	colorWarning = lipgloss.Color("#F9E2AF")
)

// styles contains the lipgloss styles for clause output.
type styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Muted    lipgloss.Style
	Distance lipgloss.Style
	Body     lipgloss.Style
}

// newStyles returns the clause output styles. Plain styles are used when
// the output is not a terminal.
func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{
			Title:    plain,
			Heading:  plain,
			Muted:    plain,
			Distance: plain,
			Body:     plain.PaddingLeft(4),
		}
	}

	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary),
		Heading:  lipgloss.NewStyle().Foreground(colorWarning),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Distance: lipgloss.NewStyle().Foreground(colorSuccess),
		Body:     lipgloss.NewStyle().PaddingLeft(4),
	}
}
