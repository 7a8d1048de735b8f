package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/followsweep/internal/domain"
)

const (
	markIndicator     = "●"
	excludedIndicator = "⊘"
)

// ListItem is one row of a pane. ID is the login or repository full name.
type ListItem struct {
	ID       string
	Detail   string
	Excluded bool
}

// ListViewModel is a table of identifiers with a set of marked rows.
type ListViewModel struct {
	table table.Model
	title string
	empty string

	// Source rows in display order
	items  []ListItem
	marked domain.StringSet
	loaded bool

	width  int
	height int
}

func NewListView(title, empty string) *ListViewModel {
	t := table.New(
		table.WithColumns(listColumns(40)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		Bold(false).
		Foreground(lipgloss.Color("#6B7280"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#F59E0B")).
		Background(lipgloss.Color("#1F2937")).
		Bold(true)
	t.SetStyles(s)

	return &ListViewModel{
		table:  t,
		title:  title,
		empty:  empty,
		marked: domain.StringSet{},
	}
}

func listColumns(detailWidth int) []table.Column {
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "", Width: 2},
		{Title: "Name", Width: 40},
		{Title: "", Width: detailWidth},
	}
}

func (m *ListViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(1, height-12))

	const fixed = 2 + 2 + 40 + 2
	m.table.SetColumns(listColumns(clamp(width-fixed, 10, 100)))
	m.rebuild()
}

// SetItems replaces the rows. Marks on identifiers that are still present
// survive.
func (m *ListViewModel) SetItems(items []ListItem) {
	m.items = append([]ListItem(nil), items...)
	m.loaded = true

	present := make(domain.StringSet, len(items))
	for _, item := range items {
		present.Add(item.ID)
	}
	for id := range m.marked {
		if !present.Has(id) {
			m.marked.Remove(id)
		}
	}

	m.rebuild()
	if len(m.items) > 0 {
		m.table.SetCursor(clamp(m.table.Cursor(), 0, len(m.items)-1))
	}
}

func (m *ListViewModel) Items() []ListItem {
	return append([]ListItem(nil), m.items...)
}

func (m *ListViewModel) IDs() []string {
	ids := make([]string, 0, len(m.items))
	for _, item := range m.items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (m *ListViewModel) Len() int {
	return len(m.items)
}

func (m *ListViewModel) Loaded() bool {
	return m.loaded
}

func (m *ListViewModel) rebuild() {
	rows := make([]table.Row, len(m.items))
	detailWidth := m.table.Columns()[3].Width

	for i, item := range m.items {
		mark := ""
		if m.marked.Has(item.ID) {
			mark = markIndicator
		}
		excluded := ""
		if item.Excluded {
			excluded = excludedIndicator
		}
		rows[i] = table.Row{
			mark,
			excluded,
			truncateString(item.ID, 40),
			truncateString(item.Detail, detailWidth),
		}
	}
	m.table.SetRows(rows)
}

func (m *ListViewModel) Selected() *ListItem {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}
	item := m.items[idx]
	return &item
}

func (m *ListViewModel) ToggleMark() {
	item := m.Selected()
	if item == nil {
		return
	}
	if !m.marked.Remove(item.ID) {
		m.marked.Add(item.ID)
	}
	m.rebuild()
}

// MarkAll marks every listed id and returns how many rows it matched.
func (m *ListViewModel) MarkAll(ids []string) int {
	wanted := domain.NewStringSet(ids...)
	count := 0
	for _, item := range m.items {
		if wanted.Has(item.ID) {
			m.marked.Add(item.ID)
			count++
		}
	}
	m.rebuild()
	return count
}

func (m *ListViewModel) ClearMarks() {
	clear(m.marked)
	m.rebuild()
}

// Marked returns the marked ids in row order.
func (m *ListViewModel) Marked() []string {
	var out []string
	for _, item := range m.items {
		if m.marked.Has(item.ID) {
			out = append(out, item.ID)
		}
	}
	return out
}

// Targets returns the marked ids, or the cursor row when nothing is marked.
func (m *ListViewModel) Targets() []string {
	if marked := m.Marked(); len(marked) > 0 {
		return marked
	}
	if item := m.Selected(); item != nil {
		return []string{item.ID}
	}
	return nil
}

func (m *ListViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *ListViewModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	header := titleStyle.Render(fmt.Sprintf("%s (%d)", m.title, len(m.items)))
	if n := len(m.marked); n > 0 {
		header += helpStyle.Render(fmt.Sprintf("  %d marked", n))
	}

	if !m.loaded {
		return header + "\n\n" + helpStyle.Render("Press r to fetch")
	}
	if len(m.items) == 0 {
		return header + "\n\n" + helpStyle.Render(m.empty)
	}

	return header + "\n" + m.colorizeTableRows(m.table.View())
}

func (m *ListViewModel) colorizeTableRows(tableOutput string) string {
	lines := strings.Split(tableOutput, "\n")
	markedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#86EFAC"))
	excludedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	for i, line := range lines {
		if strings.Contains(line, markIndicator) {
			lines[i] = markedStyle.Render(line)
		} else if strings.Contains(line, excludedIndicator) {
			lines[i] = excludedStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
