package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// App owns the terminal and hands every message to the page on screen.
// Pages ask for a switch by returning a PageNav.
type App struct {
	order  []string
	pages  map[string]Page
	active string
	keys   KeyMap
	size   tea.WindowSizeMsg
}

// NewApp registers pages in order; the first one is shown at start.
// A page whose ID is already registered replaces the earlier one.
func NewApp(pages ...Page) *App {
	a := &App{
		pages: make(map[string]Page, len(pages)),
		keys:  DefaultKeyMap(),
	}
	for _, p := range pages {
		id := p.ID()
		if _, dup := a.pages[id]; !dup {
			a.order = append(a.order, id)
		}
		a.pages[id] = p
	}
	if len(a.order) > 0 {
		a.active = a.order[0]
	}
	return a
}

// NewDashboardApp shows the rings page first, with the bar chart one
// keypress away. Both pages share d.
func NewDashboardApp(d *Dashboard) *App {
	return NewApp(NewRingsPage(d), NewBarsPage(d))
}

// ActivePage returns the ID of the page on screen.
func (a *App) ActivePage() string { return a.active }

func (a *App) current() Page { return a.pages[a.active] }

func (a *App) Init() tea.Cmd {
	if p := a.current(); p != nil {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.size = size
	}
	if k, ok := msg.(tea.KeyMsg); ok && a.quits(k) {
		return a, tea.Quit
	}

	p := a.current()
	if p == nil {
		return a, nil
	}
	cmd, nav := p.Update(msg)
	if nav == nil || nav.PageID == a.active {
		return a, cmd
	}
	next, ok := a.pages[nav.PageID]
	if !ok {
		return a, cmd
	}
	a.active = nav.PageID
	return a, tea.Batch(cmd, next.Init())
}

func (a *App) quits(k tea.KeyMsg) bool {
	return key.Matches(k, a.keys.Quit) || key.Matches(k, a.keys.ForceQuit)
}

func (a *App) View() string {
	p := a.current()
	if p == nil {
		return ""
	}
	return p.View(a.size.Width, a.size.Height)
}
