package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Page IDs.
const (
	PageRings = "rings"
	PageBars  = "bars"
)

// Page represents a top-level screen in the TUI.
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
}

// navFor resolves the view-switch keys to a page navigation request.
func navFor(d *Dashboard, msg tea.KeyMsg, current string) *PageNav {
	switch {
	case key.Matches(msg, d.keys.RingsView) && current != PageRings:
		return &PageNav{PageID: PageRings}
	case key.Matches(msg, d.keys.BarsView) && current != PageBars:
		return &PageNav{PageID: PageBars}
	case key.Matches(msg, d.keys.ToggleView):
		if current == PageRings {
			return &PageNav{PageID: PageBars}
		}
		return &PageNav{PageID: PageRings}
	}
	return nil
}
