package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 120 * time.Millisecond

// renderLoadingPlaceholder renders an animated loading indicator.
// The frame is selected based on the current time so it animates on re-render.
func renderLoadingPlaceholder(s Styles, width, height int) string {
	frame := spinnerFrames[time.Now().UnixMilli()/spinnerInterval.Milliseconds()%int64(len(spinnerFrames))]

	text := s.Muted.Italic(true).Render(frame + " Loading data...")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

// SpinnerTickMsg triggers a re-render for loading spinners.
type SpinnerTickMsg struct{}

// handleSpinnerTick re-schedules spinner ticks while the panel has no data.
func (d *Dashboard) handleSpinnerTick() tea.Cmd {
	if d.state.Loading {
		return spinnerTick()
	}
	d.spinning = false
	return nil
}

// startSpinnerIfNeeded schedules a spinner tick while the panel is loading
// and no spinner loop is running yet.
func (d *Dashboard) startSpinnerIfNeeded() tea.Cmd {
	if !d.state.Loading || d.spinning {
		return nil
	}
	d.spinning = true
	return spinnerTick()
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(_ time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}
