package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/digits/internal/digits"
)

// Grid geometry in terminal cells.
const (
	gaugeContentWidth = 9
	gaugeWidth        = gaugeContentWidth + 2 // border
	gaugeHeight       = 5                     // border + digit + value + ring bar
	pointerLines      = 2
	slotHeight        = gaugeHeight + pointerLines
	colGap            = 3
	rowGap            = 1
	ringBarWidth      = 7

	// Offset of the first gauge inside the rendered panel: outer border,
	// outer padding, inner border, inner padding.
	panelOffsetX = 1 + 1 + 1 + 3
	panelOffsetY = 1 + 0 + 1 + 1
)

// Styles holds every lipgloss style derived from a palette.
type Styles struct {
	palette digits.Palette

	Card      lipgloss.Style
	Panel     lipgloss.Style
	Gauge     lipgloss.Style
	Hovered   lipgloss.Style
	Highlight lipgloss.Style
	Digit     lipgloss.Style
	Value     lipgloss.Style
	Track     lipgloss.Style
	Pointer   lipgloss.Style
	Header    lipgloss.Style
	Muted     lipgloss.Style
	Status    lipgloss.Style
}

// NewStyles builds the dashboard styles for p.
func NewStyles(p digits.Palette) Styles {
	base := lipgloss.NewStyle().
		Width(gaugeContentWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Track))

	return Styles{
		palette: p,
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Card)).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Gauge)).
			Padding(1, 3),
		Gauge: base,
		Hovered: base.
			BorderForeground(lipgloss.Color(p.Text)),
		Highlight: base.
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(p.Highlight)),
		Digit: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Text)).
			Bold(true),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Text)).
			Faint(true),
		Track: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Track)),
		Pointer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Highlight)).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Text)).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Padding(0, 1),
	}
}

// Fill returns the ring style for a fill.
func (s Styles) Fill(f digits.Fill) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.palette.FillColor(f)))
}

// Palette returns the palette the styles were built from.
func (s Styles) Palette() digits.Palette {
	return s.palette
}
