package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel shows the last status message on the left and the follow
// graph cache state on the right.
type StatusBarModel struct {
	width   int
	message string
	isError bool
	cache   string
}

func NewStatusBar() *StatusBarModel {
	return &StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetMessage(message string, isError bool) {
	m.message = message
	m.isError = isError
}

func (m *StatusBarModel) Message() (string, bool) {
	return m.message, m.isError
}

// SetCache records which follow lists the next fetch would serve from cache.
func (m *StatusBarModel) SetCache(following, followers bool) {
	switch {
	case following && followers:
		m.cache = "graph cached"
	case following || followers:
		m.cache = "graph partly cached"
	default:
		m.cache = "graph not cached"
	}
}

func (m *StatusBarModel) CacheState() string {
	return m.cache
}

func (m *StatusBarModel) View() string {
	right := ""
	if m.cache != "" {
		right = m.cache + " "
	}

	room := m.width - lipgloss.Width(right)
	left := " " + strings.ReplaceAll(m.message, "\n", " ")
	if room > 3 && lipgloss.Width(left) > room {
		runes := []rune(left)
		left = string(runes[:min(len(runes), room-3)]) + "..."
	}

	bg := lipgloss.Color("#374151")
	if m.isError {
		bg = lipgloss.Color("#991B1B")
	}
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB")).Background(bg)

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return base.Render(left + strings.Repeat(" ", gap) + right)
}
