package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/followsweep/internal/domain"
)

// InspectViewModel shows the remote details of one account or repository.
type InspectViewModel struct {
	account  *domain.Account
	repo     *domain.Repository
	excluded bool
	viewport viewport.Model
	active   bool
	width    int
	height   int
}

func NewInspectView() *InspectViewModel {
	return &InspectViewModel{
		viewport: viewport.New(0, 0),
	}
}

func (m *InspectViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(1, height-10)
	m.updateViewport()
}

func (m *InspectViewModel) ShowAccount(account domain.Account, excluded bool) {
	m.account = &account
	m.repo = nil
	m.excluded = excluded
	m.active = true
	m.updateViewport()
}

func (m *InspectViewModel) ShowRepository(repo domain.Repository, excluded bool) {
	m.repo = &repo
	m.account = nil
	m.excluded = excluded
	m.active = true
	m.updateViewport()
}

func (m *InspectViewModel) Deactivate() {
	m.active = false
}

func (m *InspectViewModel) IsActive() bool {
	return m.active
}

// Target returns the login or full name being shown.
func (m *InspectViewModel) Target() string {
	switch {
	case m.account != nil:
		return m.account.Login
	case m.repo != nil:
		return m.repo.FullName
	}
	return ""
}

func (m *InspectViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *InspectViewModel) View() string {
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("\nx: Toggle exclusion | q/esc: Back")

	return m.viewport.View() + "\n" + help
}

func (m *InspectViewModel) updateViewport() {
	switch {
	case m.account != nil:
		m.viewport.SetContent(m.renderAccount())
	case m.repo != nil:
		m.viewport.SetContent(m.renderRepository())
	default:
		m.viewport.SetContent("")
	}
	m.viewport.GotoTop()
}

var (
	inspectTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7C3AED")).
				Bold(true)
	inspectMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6B7280"))
	inspectBodyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F9FAFB"))
)

func (m *InspectViewModel) renderAccount() string {
	var b strings.Builder

	b.WriteString(inspectTitleStyle.Render(m.account.Login))
	b.WriteString("\n")
	if m.account.Name != "" {
		b.WriteString(inspectBodyStyle.Render(m.account.Name))
		b.WriteString("\n")
	}
	b.WriteString(inspectMetaStyle.Render(fmt.Sprintf("id %d", m.account.ID)))
	b.WriteString("\n")
	if m.account.HTMLURL != "" {
		b.WriteString(inspectMetaStyle.Render(m.account.HTMLURL))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderExclusion("unfollow runs"))
	return b.String()
}

func (m *InspectViewModel) renderRepository() string {
	var b strings.Builder

	b.WriteString(inspectTitleStyle.Render(m.repo.FullName))
	b.WriteString("\n")
	b.WriteString(inspectMetaStyle.Render(fmt.Sprintf("★ %d | owner %s", m.repo.Stars, m.repo.Owner)))
	b.WriteString("\n")
	if m.repo.HTMLURL != "" {
		b.WriteString(inspectMetaStyle.Render(m.repo.HTMLURL))
		b.WriteString("\n")
	}

	if m.repo.Description != "" {
		b.WriteString("\n")
		width := m.width - 4
		if width < 20 {
			width = 80
		}
		b.WriteString(inspectBodyStyle.Width(width).Render(m.repo.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderExclusion("unstar runs"))
	return b.String()
}

func (m *InspectViewModel) renderExclusion(runs string) string {
	if m.excluded {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Render(excludedIndicator + " Excluded from " + runs)
	}
	return inspectMetaStyle.Render("Not excluded")
}

// SetExcluded updates the exclusion line after a toggle.
func (m *InspectViewModel) SetExcluded(excluded bool) {
	m.excluded = excluded
	m.updateViewport()
}
