package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/digits/internal/digits"
)

// RingsPage shows the ten digit gauges in two rows of five.
type RingsPage struct {
	d *Dashboard

	// origin of the rendered panel on screen, recorded by View for mouse
	// hit testing
	originX, originY int
}

// NewRingsPage creates the gauge grid page.
func NewRingsPage(d *Dashboard) *RingsPage {
	return &RingsPage{d: d}
}

func (p *RingsPage) ID() string    { return PageRings }
func (p *RingsPage) Init() tea.Cmd { return p.d.Init() }

func (p *RingsPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	if handled, cmd := p.d.update(msg); handled {
		return cmd, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return nil, navFor(p.d, msg, PageRings)
	case tea.MouseMsg:
		p.d.hovered = digits.NoDigit
		if msg.Action != tea.MouseActionMotion || p.d.state.Loading {
			return nil, nil
		}
		if id, ok := gaugeAt(msg.X-p.originX, msg.Y-p.originY); ok {
			p.d.hovered = id
		}
	}
	return nil, nil
}

func (p *RingsPage) View(width, height int) string {
	d := p.d
	bodyH := d.bodyHeight(height)

	if d.state.Loading {
		return d.frameView(renderLoadingPlaceholder(d.styles, width, bodyH), height)
	}

	panel := renderRings(d.styles, d.state.Rows, d.hovered, d.frame)
	left := max(0, (width-lipgloss.Width(panel))/2)
	top := max(0, (bodyH-lipgloss.Height(panel))/2)
	p.originX = left
	p.originY = lipgloss.Height(d.renderHeader()) + top

	body := lipgloss.NewStyle().PaddingLeft(left).PaddingTop(top).Render(panel)
	return d.frameView(body, height)
}
