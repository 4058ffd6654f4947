// Package ui provides the visual styling for the manifest TUI.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette, violet/cyan on near-black like the original surface.
var (
	Violet     = lipgloss.Color("#8b5cf6")
	VioletDim  = lipgloss.Color("#6d28d9")
	Indigo     = lipgloss.Color("#818cf8")
	Cyan       = lipgloss.Color("#22d3ee")
	White      = lipgloss.Color("#f5f3ff")
	Gray       = lipgloss.Color("#9ca3af")
	GrayDim    = lipgloss.Color("#4b5563")
	Green      = lipgloss.Color("#22c55e")
	Red        = lipgloss.Color("#ef4444")
	Background = lipgloss.Color("#020205")
)

// Styles holds the lipgloss styles used by the views.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Tagline   lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Statement lipgloss.Style
	Card      lipgloss.Style
	Keyword   lipgloss.Style
	Notice    lipgloss.Style
	Success   lipgloss.Style
	Button    lipgloss.Style
	ButtonDim lipgloss.Style
	NavActive lipgloss.Style
	NavIdle   lipgloss.Style
	Spinner   lipgloss.Style
	Flash     lipgloss.Style
	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style
}

// DefaultStyles returns the standard style set.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(White),
		Subtitle:  lipgloss.NewStyle().Bold(true).Foreground(Violet),
		Tagline:   lipgloss.NewStyle().Foreground(Violet).Faint(true),
		Body:      lipgloss.NewStyle().Foreground(Gray),
		Muted:     lipgloss.NewStyle().Foreground(GrayDim),
		Accent:    lipgloss.NewStyle().Foreground(Cyan),
		Statement: lipgloss.NewStyle().Bold(true).Foreground(White).Italic(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(VioletDim).
			Padding(1, 2),
		Keyword: lipgloss.NewStyle().
			Foreground(Indigo).
			Background(lipgloss.Color("#1e1b4b")).
			Padding(0, 1),
		Notice:    lipgloss.NewStyle().Bold(true).Foreground(Red),
		Success:   lipgloss.NewStyle().Bold(true).Foreground(Green),
		Button:    lipgloss.NewStyle().Bold(true).Foreground(Background).Background(Violet).Padding(0, 2),
		ButtonDim: lipgloss.NewStyle().Foreground(Gray).Padding(0, 2),
		NavActive: lipgloss.NewStyle().Bold(true).Foreground(Violet),
		NavIdle:   lipgloss.NewStyle().Foreground(GrayDim),
		Spinner:   lipgloss.NewStyle().Foreground(Violet),
		Flash:     lipgloss.NewStyle().Bold(true).Foreground(Background).Background(White),
		BarFilled: lipgloss.NewStyle().Foreground(Violet),
		BarEmpty:  lipgloss.NewStyle().Foreground(GrayDim),
	}
}
