package ui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/followsweep/internal/logger"
	"github.com/johanforsgren/followsweep/internal/ui/components"
)

type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandQuit
	CommandHelp
	CommandLogs
	CommandRefresh
	CommandInvalidate
	CommandExclude
	CommandInclude
	CommandClearExclusions
)

type Command struct {
	Type CommandType
	Name string
	Args []string
}

func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)

	if !strings.HasPrefix(input, ":") {
		return Command{Type: CommandUnknown}
	}

	parts := strings.Fields(strings.TrimPrefix(input, ":"))
	if len(parts) == 0 {
		return Command{Type: CommandUnknown}
	}

	name := parts[0]
	args := parts[1:]

	var t CommandType
	switch name {
	case "q", "quit":
		t = CommandQuit
	case "h", "help":
		t = CommandHelp
	case "logs":
		t = CommandLogs
	case "r", "refresh":
		t = CommandRefresh
	case "invalidate":
		t = CommandInvalidate
	case "exclude":
		t = CommandExclude
	case "include":
		t = CommandInclude
	case "clear-exclusions":
		t = CommandClearExclusions
	default:
		t = CommandUnknown
	}
	return Command{Type: t, Name: name, Args: args}
}

const helpText = ":q quit | :refresh | :invalidate | :exclude user|repo <id> | :include user|repo <id> | :clear-exclusions | :logs"

type KeyHandler func(m Model) (Model, tea.Cmd)

// KeyBinding maps keys to a handler. Empty Panes means every pane.
type KeyBinding struct {
	Keys        []string
	Description string
	Panes       []Pane
	Handler     KeyHandler
}

func (b KeyBinding) appliesTo(p Pane) bool {
	return len(b.Panes) == 0 || slices.Contains(b.Panes, p)
}

type CommandRegistry struct {
	bindings []KeyBinding
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{bindings: defaultBindings()}
}

func defaultBindings() []KeyBinding {
	followPanes := []Pane{PaneNonFollowers, PaneFollowBack, PaneStarred}

	return []KeyBinding{
		{Keys: []string{"ctrl+c"}, Handler: handleQuitKey},
		{Keys: []string{"tab"}, Description: "Next pane", Handler: handleNextPaneKey},
		{Keys: []string{"shift+tab"}, Handler: handlePrevPaneKey},
		{Keys: []string{"r"}, Description: "Fetch", Handler: handleFetchKey},
		{Keys: []string{"c"}, Description: "Toggle clear cache", Panes: []Pane{PaneNonFollowers, PaneFollowBack}, Handler: handleClearCacheKey},
		{Keys: []string{" "}, Description: "Mark", Handler: handleMarkKey},
		{Keys: []string{"enter"}, Description: "Inspect", Panes: followPanes, Handler: handleInspectKey},
		{Keys: []string{"x"}, Description: "Exclude", Panes: followPanes, Handler: handleExcludeKey},
		{Keys: []string{"d"}, Description: "Remove exclusion", Panes: []Pane{PaneExclusions}, Handler: handleIncludeKey},
		{Keys: []string{"D"}, Description: "Clear exclusions", Panes: []Pane{PaneExclusions}, Handler: handleClearExclusionsKey},
		{Keys: []string{"U"}, Description: "Unfollow all", Panes: []Pane{PaneNonFollowers}, Handler: handleUnfollowKey},
		{Keys: []string{"F"}, Description: "Follow back all", Panes: []Pane{PaneFollowBack}, Handler: handleFollowBackKey},
		{Keys: []string{"S"}, Description: "Unstar unmarked", Panes: []Pane{PaneStarred}, Handler: handleUnstarKey},
		{Keys: []string{"/"}, Description: "Search", Handler: handleSearchKey},
		{Keys: []string{"L"}, Description: "Logs", Handler: handleLogsKey},
		{Keys: []string{":"}, Description: "Command", Handler: handleCommandKey},
	}
}

// HandleKey runs the binding for key in the current pane, if any.
func (r *CommandRegistry) HandleKey(m Model, key string) (Model, tea.Cmd, bool) {
	for _, b := range r.bindings {
		if !b.appliesTo(m.pane) || !slices.Contains(b.Keys, key) {
			continue
		}
		newModel, cmd := b.Handler(m)
		return newModel, cmd, true
	}
	return m, nil, false
}

// GetContextualShortcuts lists "<key> description" for the pane's bindings.
func (r *CommandRegistry) GetContextualShortcuts(p Pane) []string {
	var shortcuts []string
	for _, b := range r.bindings {
		if b.Description == "" || !b.appliesTo(p) {
			continue
		}
		key := b.Keys[0]
		if key == " " {
			key = "space"
		}
		shortcuts = append(shortcuts, fmt.Sprintf("<%s> %s", key, b.Description))
	}
	return shortcuts
}

func (r *CommandRegistry) ExecuteCommand(m Model, cmd Command) (Model, tea.Cmd) {
	logger.Log("UI: Executing command: %s %v", cmd.Name, cmd.Args)

	switch cmd.Type {
	case CommandQuit:
		return m, tea.Quit
	case CommandHelp:
		m.statusBar.SetMessage(helpText, false)
	case CommandLogs:
		m.logsView.Activate()
	case CommandRefresh:
		return m, m.fetchPane(m.pane)
	case CommandInvalidate:
		if m.coordinator != nil {
			m.coordinator.Invalidate()
		}
		m.refreshCacheState()
		m.statusBar.SetMessage("Follow graph cache cleared", false)
	case CommandExclude:
		return m.editExclusion(true, cmd.Args)
	case CommandInclude:
		return m.editExclusion(false, cmd.Args)
	case CommandClearExclusions:
		return m.clearExclusions()
	default:
		m.statusBar.SetMessage(fmt.Sprintf("Unknown command: %s", cmd.Name), true)
	}
	return m, nil
}

func (m Model) handleCommandBar() (tea.Model, tea.Cmd) {
	mode := m.commandBar.Mode()
	input := m.commandBar.Submit()

	if mode == components.BarSearch {
		if strings.TrimSpace(input) == "" {
			return m, nil
		}
		return m.search(input)
	}

	if strings.TrimSpace(strings.TrimPrefix(input, ":")) == "" {
		return m, nil
	}
	return m.commandRegistry.ExecuteCommand(m, ParseCommand(input))
}

func handleQuitKey(m Model) (Model, tea.Cmd) {
	return m, tea.Quit
}

func handleNextPaneKey(m Model) (Model, tea.Cmd) {
	idx := slices.Index(paneOrder, m.pane)
	m.switchPane(paneOrder[(idx+1)%len(paneOrder)])
	return m, nil
}

func handlePrevPaneKey(m Model) (Model, tea.Cmd) {
	idx := slices.Index(paneOrder, m.pane)
	m.switchPane(paneOrder[(idx+len(paneOrder)-1)%len(paneOrder)])
	return m, nil
}

func handleFetchKey(m Model) (Model, tea.Cmd) {
	m.statusBar.SetMessage(fmt.Sprintf("Fetching %s...", strings.ToLower(m.pane.String())), false)
	return m, m.fetchPane(m.pane)
}

func handleClearCacheKey(m Model) (Model, tea.Cmd) {
	m.clearCache = !m.clearCache
	m.topBar.SetClearCache(m.clearCache)
	state := "off"
	if m.clearCache {
		state = "on"
	}
	m.statusBar.SetMessage("Clear cache before fetch: "+state, false)
	return m, nil
}

func handleMarkKey(m Model) (Model, tea.Cmd) {
	m.currentList().ToggleMark()
	return m, nil
}

func handleExcludeKey(m Model) (Model, tea.Cmd) {
	return m.excludeTargets()
}

func handleInspectKey(m Model) (Model, tea.Cmd) {
	return m.inspectSelected()
}

func handleIncludeKey(m Model) (Model, tea.Cmd) {
	return m.includeTargets()
}

func handleClearExclusionsKey(m Model) (Model, tea.Cmd) {
	return m.clearExclusions()
}

func handleUnfollowKey(m Model) (Model, tea.Cmd) {
	return m.startUnfollow()
}

func handleFollowBackKey(m Model) (Model, tea.Cmd) {
	return m.startFollowBack()
}

func handleUnstarKey(m Model) (Model, tea.Cmd) {
	return m.startUnstar()
}

func handleSearchKey(m Model) (Model, tea.Cmd) {
	m.commandBar.ActivateSearch()
	return m, nil
}

func handleLogsKey(m Model) (Model, tea.Cmd) {
	m.logsView.Activate()
	return m, nil
}

func handleCommandKey(m Model) (Model, tea.Cmd) {
	m.commandBar.Activate()
	return m, nil
}
