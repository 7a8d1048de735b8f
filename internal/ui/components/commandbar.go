package components

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxHistory = 50

// BarMode tells what the input line is collecting.
type BarMode int

const (
	BarCommand BarMode = iota
	BarSearch
)

// CommandBarModel is the single input line used for ":" commands and
// searches. Each mode keeps its own history, browsed with up and down.
type CommandBarModel struct {
	input   textinput.Model
	width   int
	active  bool
	mode    BarMode
	history map[BarMode][]string
	// cursor into the current mode's history; len(history) means the fresh line
	cursor int
}

func NewCommandBar() *CommandBarModel {
	in := textinput.New()
	in.CharLimit = 256
	in.Width = 50
	// Blink ticks are not routed back to the bar.
	in.Cursor.SetMode(cursor.CursorStatic)

	return &CommandBarModel{
		input:   in,
		history: make(map[BarMode][]string),
	}
}

func (m *CommandBarModel) SetWidth(width int) {
	m.width = width
	if width > 10 {
		m.input.Width = width - 10
	}
}

// Activate opens the bar for a ":" command.
func (m *CommandBarModel) Activate() {
	m.open(BarCommand, "> ", "Enter command...")
	m.setValue(":")
}

// ActivateSearch opens the bar for a comma-separated search query.
func (m *CommandBarModel) ActivateSearch() {
	m.open(BarSearch, "/ ", "Search terms, comma separated...")
	m.setValue("")
}

func (m *CommandBarModel) open(mode BarMode, prompt, placeholder string) {
	m.active = true
	m.mode = mode
	m.cursor = len(m.history[mode])
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.Focus()
}

func (m *CommandBarModel) setValue(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
}

// Submit closes the bar and returns what was typed, remembering non-empty
// input for the current mode.
func (m *CommandBarModel) Submit() string {
	value := m.input.Value()
	if value != "" && value != ":" {
		h := m.history[m.mode]
		if len(h) == 0 || h[len(h)-1] != value {
			h = append(h, value)
			if len(h) > maxHistory {
				h = h[len(h)-maxHistory:]
			}
			m.history[m.mode] = h
		}
	}
	m.Deactivate()
	return value
}

func (m *CommandBarModel) Deactivate() {
	m.active = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *CommandBarModel) IsActive() bool {
	return m.active
}

func (m *CommandBarModel) Mode() BarMode {
	return m.mode
}

func (m *CommandBarModel) Value() string {
	return m.input.Value()
}

func (m *CommandBarModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyUp:
			m.browse(-1)
			return nil
		case tea.KeyDown:
			m.browse(1)
			return nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *CommandBarModel) browse(step int) {
	h := m.history[m.mode]
	next := m.cursor + step
	if next < 0 || next > len(h) {
		return
	}
	m.cursor = next

	switch {
	case next < len(h):
		m.setValue(h[next])
	case m.mode == BarCommand:
		m.setValue(":")
	default:
		m.setValue("")
	}
}

func (m *CommandBarModel) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(lipgloss.Color("#1F2937")).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Width(m.width)

	return style.Render(" " + m.input.View())
}
