package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/digits/internal/digits"
)

// TickMsg represents periodic polls of the data source.
type TickMsg time.Time

// SnapshotMsg signals that the board published a new version.
type SnapshotMsg struct {
	Version uint64
}

// BounceMsg advances the pointer animation.
type BounceMsg struct{}

// Options configures the dashboard.
type Options struct {
	UpdateInterval time.Duration
	BounceInterval time.Duration
	Palette        digits.Palette
	SourceName     string
	// Updates optionally delivers board versions as they are published.
	Updates <-chan uint64
}

// Dashboard holds state shared by every page: the panel, the latest frame and
// the terminal geometry.
type Dashboard struct {
	panel   *digits.Panel
	updates <-chan uint64

	state  digits.State
	styles Styles
	keys   KeyMap
	help   help.Model

	updateInterval time.Duration
	bounceInterval time.Duration
	sourceName     string

	width    int
	height   int
	frame    int
	hovered  int
	paused   bool
	started  bool
	spinning bool

	lastRefresh time.Time
}

// NewDashboard creates the shared dashboard state reading from src.
func NewDashboard(src digits.SnapshotReader, opts Options) *Dashboard {
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = 2 * time.Second
	}
	if opts.BounceInterval <= 0 {
		opts.BounceInterval = 400 * time.Millisecond
	}
	palette := opts.Palette
	if palette == (digits.Palette{}) {
		palette = digits.DefaultPalette()
	}

	d := &Dashboard{
		panel:          digits.NewPanel(src),
		updates:        opts.Updates,
		styles:         NewStyles(palette),
		keys:           DefaultKeyMap(),
		help:           help.New(),
		updateInterval: opts.UpdateInterval,
		bounceInterval: opts.BounceInterval,
		sourceName:     opts.SourceName,
		hovered:        digits.NoDigit,
	}
	d.refresh()
	return d
}

// State returns the frame state currently on screen.
func (d *Dashboard) State() digits.State {
	return d.state
}

// Init starts the poll, update and animation loops once.
func (d *Dashboard) Init() tea.Cmd {
	if d.started {
		return nil
	}
	d.started = true
	return tea.Batch(
		d.tickCmd(),
		d.waitForUpdate(),
		d.bounceCmd(),
		d.startSpinnerIfNeeded(),
	)
}

func (d *Dashboard) refresh() {
	d.state = d.panel.State()
	d.lastRefresh = time.Now()
}

func (d *Dashboard) tickCmd() tea.Cmd {
	return tea.Tick(d.updateInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (d *Dashboard) bounceCmd() tea.Cmd {
	return tea.Tick(d.bounceInterval, func(_ time.Time) tea.Msg {
		return BounceMsg{}
	})
}

func (d *Dashboard) waitForUpdate() tea.Cmd {
	if d.updates == nil {
		return nil
	}
	ch := d.updates
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return SnapshotMsg{Version: v}
	}
}

// update handles messages every page shares. handled is false for messages
// the page should interpret itself.
func (d *Dashboard) update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.help.Width = msg.Width
		return true, nil

	case TickMsg:
		if !d.paused {
			d.refresh()
		}
		return true, tea.Batch(d.tickCmd(), d.startSpinnerIfNeeded())

	case SnapshotMsg:
		if !d.paused && msg.Version != d.state.Version {
			d.refresh()
		}
		return true, d.waitForUpdate()

	case BounceMsg:
		d.frame = (d.frame + 1) % pointerLines
		return true, d.bounceCmd()

	case SpinnerTickMsg:
		return true, d.handleSpinnerTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, d.keys.Help):
			d.help.ShowAll = !d.help.ShowAll
			return true, nil
		case key.Matches(msg, d.keys.Refresh):
			d.refresh()
			return true, nil
		case key.Matches(msg, d.keys.Pause):
			d.paused = !d.paused
			if !d.paused {
				d.refresh()
			}
			return true, nil
		}
	}
	return false, nil
}

// bodyHeight is the space between the header and the status line.
func (d *Dashboard) bodyHeight(height int) int {
	used := lipgloss.Height(d.renderHeader()) + lipgloss.Height(d.renderStatusLine())
	return max(0, height-used)
}

// renderBranding renders "digits" with a teal to blue gradient.
func (d *Dashboard) renderBranding() string {
	colors := []string{"#4BB4B3", "#55A9C6", "#609FD9", "#6A95EC", "#7A91FF", "#FF444F"}
	chars := []string{"d", "i", "g", "i", "t", "s"}

	var result string
	for i, char := range chars {
		result += lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Bold(true).Render(char)
	}
	return result
}

func (d *Dashboard) renderHeader() string {
	parts := []string{d.renderBranding()}
	if !d.state.Loading || d.state.Version > 0 {
		parts = append(parts, d.styles.Header.Render("tick "+strconv.FormatFloat(d.state.TickCounter, 'f', -1, 64)))
		if d.state.LastDigit != digits.NoDigit {
			parts = append(parts, d.styles.Pointer.Render(fmt.Sprintf("last digit %d", d.state.LastDigit)))
		}
	}
	if d.sourceName != "" {
		parts = append(parts, d.styles.Muted.Render("● "+d.sourceName))
	}
	if d.paused {
		parts = append(parts, d.styles.Muted.Render("⏸ paused"))
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "  "
		}
		out += p
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(out)
}

func (d *Dashboard) renderStatusLine() string {
	return d.styles.Status.Render(d.help.View(d.keys))
}

// frameView assembles header, body and status line.
func (d *Dashboard) frameView(body string, height int) string {
	header := d.renderHeader()
	status := d.renderStatusLine()
	bodyH := d.bodyHeight(height)
	body = lipgloss.NewStyle().Height(bodyH).MaxHeight(bodyH).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}
