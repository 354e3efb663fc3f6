package tui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/digits/internal/digits"
)

var partialBlocks = []string{"▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// ringBar draws the filled share of a ring as a horizontal bar with
// eighth-cell precision.
func ringBar(fraction float64, width int) (filled, track string) {
	eighths := int(math.Round(fraction * float64(width*8)))
	full := eighths / 8
	partial := eighths % 8

	var b strings.Builder
	b.WriteString(strings.Repeat("█", full))
	used := full
	if partial > 0 {
		b.WriteString(partialBlocks[partial-1])
		used++
	}
	return b.String(), strings.Repeat("░", width-used)
}

// renderGauge renders one digit card plus the pointer lines under it.
// frame selects the bounce position of the pointer.
func renderGauge(s Styles, g *digits.Gauge, hovered bool, frame int) string {
	style := s.Gauge
	switch {
	case g.IsHighlighted:
		style = s.Highlight
	case hovered:
		style = s.Hovered
	}

	filled, track := ringBar(g.Fraction(), ringBarWidth)
	body := lipgloss.JoinVertical(lipgloss.Center,
		s.Digit.Render(strconv.Itoa(g.ID)),
		s.Value.Render(g.Value),
		s.Fill(g.Fill).Render(filled)+s.Track.Render(track),
	)
	card := style.Render(body)

	blank := strings.Repeat(" ", gaugeWidth)
	pointer := make([]string, pointerLines)
	for i := range pointer {
		pointer[i] = blank
	}
	if g.IsPointer {
		marker := lipgloss.PlaceHorizontal(gaugeWidth, lipgloss.Center, s.Pointer.Render("▼"))
		pointer[frame%pointerLines] = marker
	}

	return lipgloss.JoinVertical(lipgloss.Left, card, strings.Join(pointer, "\n"))
}

// renderEmptySlot keeps the grid aligned when a digit is missing.
func renderEmptySlot() string {
	line := strings.Repeat(" ", gaugeWidth)
	lines := make([]string, slotHeight)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// renderRings renders the two-row gauge grid inside the card and panel
// containers.
func renderRings(s Styles, rows digits.Rows, hovered, frame int) string {
	gap := strings.Repeat(" ", colGap)
	renderedRows := make([]string, 0, digits.GridRows)
	for _, row := range rows {
		cells := make([]string, 0, 2*digits.GridCols-1)
		for col, g := range row {
			if col > 0 {
				cells = append(cells, gap)
			}
			if g == nil {
				cells = append(cells, renderEmptySlot())
				continue
			}
			cells = append(cells, renderGauge(s, g, g.ID == hovered, frame))
		}
		renderedRows = append(renderedRows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	grid := strings.Join(renderedRows, strings.Repeat("\n", rowGap+1))
	return s.Card.Render(s.Panel.Render(grid))
}

// gaugeAt maps a position relative to the top-left of the rendered panel to
// the digit under it.
func gaugeAt(x, y int) (int, bool) {
	x -= panelOffsetX
	y -= panelOffsetY
	if x < 0 || y < 0 {
		return digits.NoDigit, false
	}
	col, cx := x/(gaugeWidth+colGap), x%(gaugeWidth+colGap)
	row, cy := y/(slotHeight+rowGap), y%(slotHeight+rowGap)
	if col >= digits.GridCols || row >= digits.GridRows || cx >= gaugeWidth || cy >= gaugeHeight {
		return digits.NoDigit, false
	}
	return row*digits.GridCols + col, true
}
