package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TopBarModel struct {
	width        int
	login        string
	following    int
	followers    int
	nonFollowers int
	followBack   int
	starred      int
	exclusions   int
	clearCache   bool
	runs         []string
	currentView  string
	shortcuts    []string
}

var (
	titleStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleOrangeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	valueWhiteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	runningStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	shortcutBlueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	descGrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
)

func NewTopBar() *TopBarModel {
	return &TopBarModel{}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

func (m *TopBarModel) SetIdentity(login string) {
	m.login = login
}

func (m *TopBarModel) SetGraphStats(following, followers int) {
	m.following = following
	m.followers = followers
}

func (m *TopBarModel) SetCounts(nonFollowers, followBack, starred, exclusions int) {
	m.nonFollowers = nonFollowers
	m.followBack = followBack
	m.starred = starred
	m.exclusions = exclusions
}

func (m *TopBarModel) SetClearCache(on bool) {
	m.clearCache = on
}

// SetRuns lists the bulk runs currently in flight.
func (m *TopBarModel) SetRuns(runs []string) {
	m.runs = runs
}

func (m *TopBarModel) SetView(view string) {
	m.currentView = view
}

func (m *TopBarModel) SetShortcuts(shortcuts []string) {
	m.shortcuts = shortcuts
}

func (m *TopBarModel) View() string {
	titleLine := titleOrangeStyle.Render("followsweep")

	contextLines := m.buildContextInfo()
	shortcutCol1, shortcutCol2, col1Width := m.buildShortcutsDisplay(len(contextLines))

	var topSection []string
	topSection = append(topSection, titleLine)
	topSection = append(topSection, "")

	const fixedRows = 5
	const contextColWidth = 45
	const colMargin = 4

	for i := 0; i < fixedRows; i++ {
		var contextCol, sc1, sc2 string

		if i < len(contextLines) {
			contextCol = contextLines[i]
		}
		if i < len(shortcutCol1) {
			sc1 = shortcutCol1[i]
		}
		if i < len(shortcutCol2) {
			sc2 = shortcutCol2[i]
		}

		padding1 := contextColWidth - lipgloss.Width(contextCol)
		if padding1 < 0 {
			padding1 = 1
		}

		line := contextCol + strings.Repeat(" ", padding1) + sc1

		if sc2 != "" {
			padding2 := col1Width - lipgloss.Width(sc1) + colMargin
			if padding2 < colMargin {
				padding2 = colMargin
			}
			line += strings.Repeat(" ", padding2) + sc2
		}

		topSection = append(topSection, line)
	}

	content := strings.Join(topSection, "\n")
	return titleStyle.Width(m.width).Render(content)
}

func (m *TopBarModel) buildContextInfo() []string {
	var lines []string

	login := "not signed in"
	if m.login != "" {
		login = m.login
	}
	lines = append(lines, "👤 "+titleOrangeStyle.Render("User: ")+valueWhiteStyle.Render(login))

	lines = append(lines,
		"🔗 "+titleOrangeStyle.Render("Graph: ")+
			valueWhiteStyle.Render(fmt.Sprintf("%d following, %d followers", m.following, m.followers)))

	lines = append(lines,
		"📋 "+titleOrangeStyle.Render("Lists: ")+
			valueWhiteStyle.Render(fmt.Sprintf("%d/%d/%d", m.nonFollowers, m.followBack, m.starred))+
			descGrayStyle.Render(fmt.Sprintf(" (%d excluded)", m.exclusions)))

	status := descGrayStyle.Render("idle")
	if len(m.runs) > 0 {
		status = runningStyle.Render(strings.Join(m.runs, ", ") + " running")
	}
	cache := "cached"
	if m.clearCache {
		cache = "refetch"
	}
	lines = append(lines, "⚙️  "+titleOrangeStyle.Render("Runs: ")+status+descGrayStyle.Render(" | "+cache))

	viewName := m.currentView
	if viewName == "" {
		viewName = "Non-followers"
	}
	lines = append(lines, "🎯 "+titleOrangeStyle.Render("View: ")+valueWhiteStyle.Render(viewName))

	return lines
}

func (m *TopBarModel) buildShortcutsDisplay(contextHeight int) ([]string, []string, int) {
	var formattedShortcuts []string
	maxWidth := 0

	for _, shortcut := range m.shortcuts {
		parts := strings.SplitN(shortcut, ">", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "<")
		desc := strings.TrimSpace(parts[1])

		formatted := shortcutBlueStyle.Render("<"+key+">") + " " + descGrayStyle.Render(desc)
		formattedShortcuts = append(formattedShortcuts, formatted)

		if width := lipgloss.Width(formatted); width > maxWidth {
			maxWidth = width
		}
	}

	rows := max(5, contextHeight)
	if len(formattedShortcuts) <= rows {
		return formattedShortcuts, nil, maxWidth
	}
	return formattedShortcuts[:rows], formattedShortcuts[rows:], maxWidth
}
