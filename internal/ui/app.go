package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/followsweep/internal/bulk"
	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/johanforsgren/followsweep/internal/graph"
	"github.com/johanforsgren/followsweep/internal/logger"
	"github.com/johanforsgren/followsweep/internal/provider/common"
	"github.com/johanforsgren/followsweep/internal/ui/components"
	"github.com/johanforsgren/followsweep/internal/ui/views"
)

type Pane int

const (
	PaneNonFollowers Pane = iota
	PaneFollowBack
	PaneStarred
	PaneExclusions
)

var paneOrder = []Pane{PaneNonFollowers, PaneFollowBack, PaneStarred, PaneExclusions}

func (p Pane) String() string {
	switch p {
	case PaneNonFollowers:
		return "Non-followers"
	case PaneFollowBack:
		return "Follow back"
	case PaneStarred:
		return "Starred"
	case PaneExclusions:
		return "Exclusions"
	default:
		return "Unknown"
	}
}

// Deps are the collaborators the TUI drives.
type Deps struct {
	Client      domain.GraphClient
	Coordinator *bulk.Coordinator
	Exclusions  domain.ExclusionRepository
	Context     context.Context
}

type Model struct {
	pane            Pane
	width           int
	height          int
	topBar          *components.TopBarModel
	statusBar       *components.StatusBarModel
	commandBar      *components.CommandBarModel
	logsView        *views.LogsViewModel
	inspectView     *views.InspectViewModel
	lists           map[Pane]*views.ListViewModel
	client          domain.GraphClient
	coordinator     *bulk.Coordinator
	exclusions      domain.ExclusionRepository
	ctx             context.Context
	commandRegistry *CommandRegistry

	login      string
	clearCache bool
	overview   *bulk.Overview
	starred    []domain.Repository
	starredOK  bool
}

func NewModel(deps Deps) Model {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}

	m := Model{
		pane:        PaneNonFollowers,
		topBar:      components.NewTopBar(),
		statusBar:   components.NewStatusBar(),
		commandBar:  components.NewCommandBar(),
		logsView:    views.NewLogsView(),
		inspectView: views.NewInspectView(),
		lists: map[Pane]*views.ListViewModel{
			PaneNonFollowers: views.NewListView("Non-followers", "Everyone you follow follows you back"),
			PaneFollowBack:   views.NewListView("Follow back", "You follow all of your followers"),
			PaneStarred:      views.NewListView("Starred", "No starred repositories"),
			PaneExclusions:   views.NewListView("Exclusions", "No exclusions"),
		},
		client:          deps.Client,
		coordinator:     deps.Coordinator,
		exclusions:      deps.Exclusions,
		ctx:             ctx,
		commandRegistry: NewCommandRegistry(),
	}
	m.refreshExclusions()
	m.refreshCacheState()
	m.updateShortcuts()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.authenticate()
}

func (m Model) currentList() *views.ListViewModel {
	return m.lists[m.pane]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.commandBar.SetWidth(msg.Width)
		m.logsView.SetSize(msg.Width, msg.Height)
		m.inspectView.SetSize(msg.Width, msg.Height)
		for _, list := range m.lists {
			list.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		key := msg.String()

		if m.commandBar.IsActive() {
			switch key {
			case "enter":
				return m.handleCommandBar()
			case "esc":
				m.commandBar.Deactivate()
				return m, nil
			default:
				cmd = m.commandBar.Update(msg)
				return m, cmd
			}
		}

		if m.logsView.IsActive() {
			switch key {
			case "esc", "q", "L":
				m.logsView.Deactivate()
				return m, nil
			default:
				cmd = m.logsView.Update(msg)
				return m, cmd
			}
		}

		if m.inspectView.IsActive() {
			switch key {
			case "esc", "q", "enter":
				m.inspectView.Deactivate()
				return m, nil
			case "x":
				return m.toggleInspectedExclusion()
			case "ctrl+c":
				return m, tea.Quit
			default:
				cmd = m.inspectView.Update(msg)
				return m, cmd
			}
		}

		if newModel, cmd, handled := m.commandRegistry.HandleKey(m, key); handled {
			return newModel, cmd
		}

	case IdentityMsg:
		m.login = msg.Identity.Login
		m.topBar.SetIdentity(m.login)
		m.statusBar.SetMessage(fmt.Sprintf("Signed in as %s", m.login), false)
		return m, m.fetchPane(PaneNonFollowers)

	case OverviewLoadedMsg:
		overview := msg.Overview
		m.overview = &overview
		m.refreshNonFollowers()
		m.refreshCacheState()
		m.statusBar.SetMessage(fmt.Sprintf("%d of %d followed accounts do not follow back", len(overview.NonFollowers), len(overview.Following)), false)
		return m, nil

	case FollowBackLoadedMsg:
		items := make([]views.ListItem, 0, len(msg.Logins))
		for _, login := range msg.Logins {
			items = append(items, views.ListItem{ID: login})
		}
		m.lists[PaneFollowBack].SetItems(items)
		m.updateCounts()
		m.refreshCacheState()
		m.statusBar.SetMessage(fmt.Sprintf("%d followers are not followed back", len(msg.Logins)), false)
		return m, nil

	case StarredLoadedMsg:
		m.starred = msg.Repos
		m.starredOK = true
		m.refreshStarred()
		m.statusBar.SetMessage(fmt.Sprintf("Loaded %d starred repositories", len(msg.Repos)), false)
		return m, nil

	case InspectLoadedMsg:
		m.showInspected(msg)
		return m, nil

	case ExclusionsChangedMsg:
		m.refreshExclusions()
		return m, nil

	case RunFinishedMsg:
		return m.handleRunFinished(msg.Result)

	case ErrorMsg:
		m.statusBar.SetMessage(errorText(msg.Op, msg.Err), true)
		return m, nil

	case SuccessMsg:
		m.statusBar.SetMessage(msg.Message, false)
		return m, nil
	}

	cmd = m.currentList().Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case m.logsView.IsActive():
		content = m.logsView.View()
	case m.inspectView.IsActive():
		content = m.inspectView.View()
	default:
		content = m.renderTabs() + "\n" + m.currentList().View()
	}

	topBar := m.topBar.View()
	if commandBar := m.commandBar.View(); commandBar != "" {
		return topBar + "\n" + content + "\n" + commandBar
	}
	return topBar + "\n" + content + "\n" + m.statusBar.View()
}

func (m Model) renderTabs() string {
	var tabs string
	for i, p := range paneOrder {
		if i > 0 {
			tabs += " "
		}
		label := fmt.Sprintf("%s (%d)", p, m.lists[p].Len())
		if p == m.pane {
			tabs += SelectedItemStyle.Render(label)
		} else {
			tabs += UnselectedItemStyle.Render(label)
		}
	}
	return tabs
}

func (m *Model) switchPane(p Pane) {
	m.pane = p
	m.topBar.SetView(p.String())
	m.updateShortcuts()
	logger.Log("UI: Switched to %s pane", p)
}

func (m Model) updateShortcuts() {
	m.topBar.SetShortcuts(m.commandRegistry.GetContextualShortcuts(m.pane))
}

func (m Model) refreshRuns() {
	if m.coordinator == nil {
		return
	}
	var running []string
	for _, kind := range []domain.RunKind{domain.RunUnfollow, domain.RunFollowBack, domain.RunUnstar} {
		if m.coordinator.Running(kind) {
			running = append(running, string(kind))
		}
	}
	m.topBar.SetRuns(running)
}

func (m Model) refreshCacheState() {
	if m.coordinator == nil {
		return
	}
	cache := m.coordinator.Cache()
	m.statusBar.SetCache(cache.Valid(graph.KindFollowing), cache.Valid(graph.KindFollowers))
}

func (m Model) updateCounts() {
	excluded := 0
	if m.exclusions != nil {
		excluded = m.exclusions.Snapshot().Len()
	}
	m.topBar.SetCounts(
		m.lists[PaneNonFollowers].Len(),
		m.lists[PaneFollowBack].Len(),
		m.lists[PaneStarred].Len(),
		excluded,
	)
	if m.overview != nil {
		m.topBar.SetGraphStats(len(m.overview.Following), len(m.overview.Followers))
	}
}

func errorText(op string, err error) string {
	text := common.ExtractErrorMessage(err)
	if op == "" {
		return text
	}
	return fmt.Sprintf("Failed to %s: %s", op, text)
}

// IdentityMsg reports the authenticated account.
type IdentityMsg struct {
	Identity domain.Identity
}

type OverviewLoadedMsg struct {
	Overview bulk.Overview
}

type FollowBackLoadedMsg struct {
	Logins []string
}

type StarredLoadedMsg struct {
	Repos []domain.Repository
}

// InspectLoadedMsg carries the resolved details of the inspected row. Exactly
// one of Account and Repo is set.
type InspectLoadedMsg struct {
	Account *domain.Account
	Repo    *domain.Repository
}

// ExclusionsChangedMsg is sent when the exclusion file changed on disk.
type ExclusionsChangedMsg struct {
	List domain.ExclusionList
}

// RunFinishedMsg carries the terminal result of a bulk run.
type RunFinishedMsg struct {
	Result domain.RunResult
}

type ErrorMsg struct {
	Op  string
	Err error
}

type SuccessMsg struct {
	Message string
}
