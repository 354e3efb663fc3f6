package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type quitModel struct{}

func (quitModel) Init() tea.Cmd                       { return tea.Quit }
func (quitModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return quitModel{}, nil }
func (quitModel) View() string                        { return "" }

// startupSequences runs a program built from programOptions against a fake
// terminal and returns what it wrote while starting.
func startupSequences(t *testing.T) string {
	t.Helper()

	var out bytes.Buffer
	opts := append(programOptions(context.Background(), false),
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(&out),
	)
	if _, err := tea.NewProgram(quitModel{}, opts...).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestProgramOptions_ReportsHoverWithoutButton(t *testing.T) {
	out := startupSequences(t)

	// any-event tracking (1003) reports motion with no button held;
	// button-event tracking (1002) only reports drags.
	if !strings.Contains(out, "\x1b[?1003h") {
		t.Fatalf("startup output %q does not enable all-motion mouse tracking", out)
	}
	if strings.Contains(out, "\x1b[?1002h") {
		t.Fatalf("startup output %q enables cell-motion tracking", out)
	}
}

func TestProgramOptions_AltScreen(t *testing.T) {
	if out := startupSequences(t); !strings.Contains(out, "\x1b[?1049h") {
		t.Fatalf("startup output %q does not enter the alt screen", out)
	}
}
