package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/followsweep/internal/logger"
)

type LogsViewModel struct {
	width      int
	height     int
	offset     int
	active     bool
	errorsOnly bool
	logs       []logger.LogEntry
}

func NewLogsView() *LogsViewModel {
	return &LogsViewModel{}
}

func (m *LogsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *LogsViewModel) Activate() {
	m.active = true
	m.Refresh()
	m.scrollToBottom()
}

func (m *LogsViewModel) Deactivate() {
	m.active = false
	m.offset = 0
}

func (m *LogsViewModel) IsActive() bool {
	return m.active
}

// Refresh re-reads the session log, keeping the view pinned to the bottom if
// it was there.
func (m *LogsViewModel) Refresh() {
	atBottom := m.offset >= m.maxOffset()

	entries := logger.GetLogs()
	if m.errorsOnly {
		filtered := entries[:0:0]
		for _, entry := range entries {
			if entry.Level == logger.LevelError {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}
	m.logs = entries

	if atBottom {
		m.scrollToBottom()
	} else if m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
}

func (m *LogsViewModel) getVisibleLines() int {
	return max(1, m.height-8)
}

func (m *LogsViewModel) maxOffset() int {
	return max(0, len(m.logs)-m.getVisibleLines())
}

func (m *LogsViewModel) scrollToBottom() {
	m.offset = m.maxOffset()
}

func (m *LogsViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.offset > 0 {
			m.offset--
		}
	case "down", "j":
		if m.offset < m.maxOffset() {
			m.offset++
		}
	case "pgup":
		m.offset = max(0, m.offset-m.getVisibleLines())
	case "pgdown":
		m.offset = min(m.maxOffset(), m.offset+m.getVisibleLines())
	case "g", "home":
		m.offset = 0
	case "G", "end":
		m.scrollToBottom()
	case "e":
		m.errorsOnly = !m.errorsOnly
		m.Refresh()
		m.scrollToBottom()
	case "r":
		m.Refresh()
	}

	return nil
}

func logLineColor(level logger.Level) string {
	switch level {
	case logger.LevelError:
		return "#EF4444"
	case logger.LevelMutation:
		return "#F59E0B"
	case logger.LevelRun:
		return "#7C3AED"
	case logger.LevelFileWrite, logger.LevelFileOpen:
		return "#10B981"
	default:
		return "#E5E7EB"
	}
}

func (m *LogsViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Padding(1, 0)

	title := fmt.Sprintf("Session Logs (%d entries)", len(m.logs))
	if m.errorsOnly {
		title += " [errors only]"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.logs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
		b.WriteString(emptyStyle.Render("No logs yet"))
	} else {
		end := min(m.offset+m.getVisibleLines(), len(m.logs))
		for _, entry := range m.logs[m.offset:end] {
			lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(logLineColor(entry.Level)))
			b.WriteString(lineStyle.Render(fmt.Sprintf("%s %s", entry.Timestamp.Format("15:04:05.000"), entry)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	scrollInfo := ""
	if len(m.logs) > m.getVisibleLines() {
		scrollInfo = fmt.Sprintf(" | Showing %d-%d of %d", m.offset+1, min(m.offset+m.getVisibleLines(), len(m.logs)), len(m.logs))
	}

	help := fmt.Sprintf("j/k: Scroll | PgUp/PgDn: Page | g/G: Top/Bottom | e: Errors only | r: Reload | Esc: Close%s", scrollInfo)
	b.WriteString(helpStyle.Render(help))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2).
		Width(max(0, m.width-4))

	return boxStyle.Render(b.String())
}
