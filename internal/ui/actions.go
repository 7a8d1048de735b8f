package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/followsweep/internal/diff"
	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/johanforsgren/followsweep/internal/logger"
	"github.com/johanforsgren/followsweep/internal/provider/common"
	"github.com/johanforsgren/followsweep/internal/ui/views"
)

func (m Model) authenticate() tea.Cmd {
	if m.client == nil {
		return nil
	}
	return func() tea.Msg {
		identity, err := m.client.Authenticate(m.ctx)
		if err != nil {
			return ErrorMsg{Op: "authenticate", Err: err}
		}
		return IdentityMsg{Identity: identity}
	}
}

// fetchPane loads the data behind p. With clear-cache on, the follow graph
// is dropped first so the fetch goes to the remote.
func (m Model) fetchPane(p Pane) tea.Cmd {
	if m.coordinator == nil {
		return nil
	}
	if m.clearCache && (p == PaneNonFollowers || p == PaneFollowBack) {
		m.coordinator.Invalidate()
		m.refreshCacheState()
	}

	switch p {
	case PaneNonFollowers:
		excluded := m.exclusions.Snapshot().Users
		return func() tea.Msg {
			overview, err := m.coordinator.Overview(m.ctx, excluded)
			if err != nil {
				return ErrorMsg{Op: "fetch non-followers", Err: err}
			}
			return OverviewLoadedMsg{Overview: overview}
		}
	case PaneFollowBack:
		return func() tea.Msg {
			logins, err := m.coordinator.NotFollowedBack(m.ctx)
			if err != nil {
				return ErrorMsg{Op: "fetch followers", Err: err}
			}
			return FollowBackLoadedMsg{Logins: logins}
		}
	case PaneStarred:
		return func() tea.Msg {
			repos, err := m.coordinator.Starred(m.ctx)
			if err != nil {
				return ErrorMsg{Op: "fetch starred repositories", Err: err}
			}
			return StarredLoadedMsg{Repos: repos}
		}
	default:
		return func() tea.Msg {
			return ExclusionsChangedMsg{List: m.exclusions.Snapshot()}
		}
	}
}

// refreshNonFollowers recomputes the pane from the last overview under the
// current exclusions. No network.
func (m Model) refreshNonFollowers() {
	if m.overview == nil {
		return
	}
	nonFollowers := diff.NonFollowers(m.overview.Following, m.overview.Followers, m.exclusions.Snapshot().Users)
	items := make([]views.ListItem, 0, len(nonFollowers))
	for _, a := range nonFollowers {
		items = append(items, views.ListItem{ID: a.Login, Detail: a.Name})
	}
	m.lists[PaneNonFollowers].SetItems(items)
	m.updateCounts()
}

func (m Model) refreshStarred() {
	if !m.starredOK {
		return
	}
	excluded := m.exclusions.Snapshot().Repos
	items := make([]views.ListItem, 0, len(m.starred))
	for _, r := range m.starred {
		detail := fmt.Sprintf("★ %d", r.Stars)
		if r.Description != "" {
			detail += "  " + r.Description
		}
		items = append(items, views.ListItem{ID: r.FullName, Detail: detail, Excluded: excluded.Has(r.FullName)})
	}
	m.lists[PaneStarred].SetItems(items)
	m.updateCounts()
}

// refreshExclusions rebuilds every pane that depends on the exclusion list.
func (m Model) refreshExclusions() {
	if m.exclusions == nil {
		return
	}
	list := m.exclusions.Snapshot()

	items := make([]views.ListItem, 0, list.Len())
	for _, login := range list.Users.Sorted() {
		items = append(items, views.ListItem{ID: login, Detail: "user"})
	}
	for _, repo := range list.Repos.Sorted() {
		items = append(items, views.ListItem{ID: repo, Detail: "repo"})
	}
	m.lists[PaneExclusions].SetItems(items)

	m.refreshNonFollowers()
	m.refreshStarred()
	m.updateCounts()
}

func isRepoID(id string) bool {
	return strings.Contains(id, "/")
}

// excludeTargets adds the marked rows (or the cursor row) of the current
// pane to the exclusion list.
func (m Model) excludeTargets() (Model, tea.Cmd) {
	if m.pane == PaneExclusions {
		return m, nil
	}
	targets := m.currentList().Targets()
	if len(targets) == 0 {
		return m, nil
	}

	var errs []error
	for _, id := range targets {
		if err := m.addExclusion(id); err != nil {
			errs = append(errs, err)
		}
	}
	m.currentList().ClearMarks()
	m.refreshExclusions()

	if err := errors.Join(errs...); err != nil {
		m.statusBar.SetMessage(errorText("save exclusions", err), true)
		return m, nil
	}
	m.statusBar.SetMessage(fmt.Sprintf("Excluded %s", strings.Join(targets, ", ")), false)
	return m, nil
}

func (m Model) addExclusion(id string) error {
	if isRepoID(id) {
		return m.exclusions.AddRepo(id)
	}
	return m.exclusions.AddUser(id)
}

func (m Model) removeExclusion(id string) error {
	if isRepoID(id) {
		return m.exclusions.RemoveRepo(id)
	}
	return m.exclusions.RemoveUser(id)
}

func (m Model) includeTargets() (Model, tea.Cmd) {
	if m.pane != PaneExclusions {
		return m, nil
	}
	targets := m.currentList().Targets()
	if len(targets) == 0 {
		return m, nil
	}

	var errs []error
	for _, id := range targets {
		if err := m.removeExclusion(id); err != nil {
			errs = append(errs, err)
		}
	}
	m.refreshExclusions()

	if err := errors.Join(errs...); err != nil {
		m.statusBar.SetMessage(errorText("save exclusions", err), true)
		return m, nil
	}
	m.statusBar.SetMessage(fmt.Sprintf("Removed exclusion for %s", strings.Join(targets, ", ")), false)
	return m, nil
}

func (m Model) clearExclusions() (Model, tea.Cmd) {
	count := m.exclusions.Snapshot().Len()
	err := m.exclusions.Clear()
	m.refreshExclusions()
	if err != nil {
		m.statusBar.SetMessage(errorText("save exclusions", err), true)
		return m, nil
	}
	m.statusBar.SetMessage(fmt.Sprintf("Cleared %d exclusions", count), false)
	return m, nil
}

// editExclusion handles ":exclude user|repo <id>" and ":include user|repo <id>".
func (m Model) editExclusion(add bool, args []string) (Model, tea.Cmd) {
	if len(args) != 2 {
		m.statusBar.SetMessage("Usage: exclude|include user <login> | repo <owner/name>", true)
		return m, nil
	}
	kind, id := args[0], args[1]

	var err error
	switch kind {
	case "user":
		if err = common.ValidateLogin(id); err != nil {
			break
		}
		if add {
			err = m.exclusions.AddUser(id)
		} else {
			err = m.exclusions.RemoveUser(id)
		}
	case "repo":
		if _, _, err = common.ParseRepositoryFullName(id); err != nil {
			break
		}
		if add {
			err = m.exclusions.AddRepo(id)
		} else {
			err = m.exclusions.RemoveRepo(id)
		}
	default:
		err = fmt.Errorf("unknown exclusion kind %q", kind)
	}
	m.refreshExclusions()

	if err != nil {
		m.statusBar.SetMessage(errorText("update exclusions", err), true)
		return m, nil
	}
	verb := "Excluded"
	if !add {
		verb = "Included"
	}
	m.statusBar.SetMessage(fmt.Sprintf("%s %s %s", verb, kind, id), false)
	return m, nil
}

// inspectSelected resolves the cursor row against the remote and opens the
// detail view.
func (m Model) inspectSelected() (Model, tea.Cmd) {
	item := m.currentList().Selected()
	if item == nil || m.client == nil {
		return m, nil
	}
	id := item.ID
	m.statusBar.SetMessage(fmt.Sprintf("Loading %s...", id), false)

	if isRepoID(id) {
		return m, func() tea.Msg {
			repo, err := m.client.ResolveRepository(m.ctx, id)
			if err != nil {
				return ErrorMsg{Op: "load " + id, Err: err}
			}
			return InspectLoadedMsg{Repo: &repo}
		}
	}
	return m, func() tea.Msg {
		account, err := m.client.ResolveAccount(m.ctx, id)
		if err != nil {
			return ErrorMsg{Op: "load " + id, Err: err}
		}
		return InspectLoadedMsg{Account: &account}
	}
}

func (m Model) showInspected(msg InspectLoadedMsg) {
	list := m.exclusions.Snapshot()
	switch {
	case msg.Account != nil:
		m.inspectView.ShowAccount(*msg.Account, list.Users.Has(msg.Account.Login))
	case msg.Repo != nil:
		m.inspectView.ShowRepository(*msg.Repo, list.Repos.Has(msg.Repo.FullName))
	default:
		return
	}
	m.statusBar.SetMessage("", false)
}

func (m Model) toggleInspectedExclusion() (Model, tea.Cmd) {
	id := m.inspectView.Target()
	if id == "" {
		return m, nil
	}

	list := m.exclusions.Snapshot()
	excluded := list.Users.Has(id) || list.Repos.Has(id)

	var err error
	if excluded {
		err = m.removeExclusion(id)
	} else {
		err = m.addExclusion(id)
	}
	m.refreshExclusions()
	m.inspectView.SetExcluded(!excluded)

	if err != nil {
		m.statusBar.SetMessage(errorText("save exclusions", err), true)
		return m, nil
	}
	if excluded {
		m.statusBar.SetMessage(fmt.Sprintf("Removed exclusion for %s", id), false)
	} else {
		m.statusBar.SetMessage(fmt.Sprintf("Excluded %s", id), false)
	}
	return m, nil
}

// search marks the rows matching any comma-separated term in every pane.
func (m Model) search(query string) (Model, tea.Cmd) {
	total := 0
	for _, p := range paneOrder {
		list := m.lists[p]
		total += list.MarkAll(diff.Select(list.IDs(), query))
	}
	logger.Log("UI: Search %q marked %d rows", query, total)
	m.statusBar.SetMessage(fmt.Sprintf("Marked %d matches for %q", total, query), false)
	return m, nil
}

func (m Model) startUnfollow() (Model, tea.Cmd) {
	_, err := m.coordinator.StartUnfollow(m.ctx, m.exclusions.Snapshot().Users)
	return m.runStarted(domain.RunUnfollow, err)
}

func (m Model) startFollowBack() (Model, tea.Cmd) {
	_, err := m.coordinator.StartFollowBack(m.ctx)
	return m.runStarted(domain.RunFollowBack, err)
}

// startUnstar excludes the marked starred repositories first, then unstars
// every remaining one.
func (m Model) startUnstar() (Model, tea.Cmd) {
	if marked := m.lists[PaneStarred].Marked(); len(marked) > 0 {
		for _, repo := range marked {
			if err := m.exclusions.AddRepo(repo); err != nil {
				m.statusBar.SetMessage(errorText("save exclusions", err), true)
				m.refreshExclusions()
				return m, nil
			}
		}
		m.lists[PaneStarred].ClearMarks()
		m.refreshExclusions()
	}

	var repos []string
	if m.starredOK {
		repos = diff.FullNames(m.starred)
	}
	_, err := m.coordinator.StartUnstar(m.ctx, repos, m.exclusions.Snapshot().Repos)
	return m.runStarted(domain.RunUnstar, err)
}

func (m Model) runStarted(kind domain.RunKind, err error) (Model, tea.Cmd) {
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRunning) {
			m.statusBar.SetMessage(fmt.Sprintf("A %s run is already in progress", kind), true)
		} else {
			m.statusBar.SetMessage(errorText("start "+string(kind), err), true)
		}
		return m, nil
	}
	m.refreshRuns()
	m.statusBar.SetMessage(fmt.Sprintf("Started %s run", kind), false)
	return m, nil
}

// handleRunFinished reports the result and refetches what the run changed.
// Runs leave the graph cache alone, so it is invalidated here.
func (m Model) handleRunFinished(result domain.RunResult) (Model, tea.Cmd) {
	m.refreshRuns()
	m.statusBar.SetMessage(summarizeRun(result), result.Failed() || len(result.Failures) > 0)

	switch result.Kind {
	case domain.RunUnstar:
		if m.starredOK {
			return m, m.fetchPane(PaneStarred)
		}
	case domain.RunUnfollow, domain.RunFollowBack:
		m.coordinator.Invalidate()
		m.refreshCacheState()
		var cmds []tea.Cmd
		if m.overview != nil {
			cmds = append(cmds, m.fetchPane(PaneNonFollowers))
		}
		if m.lists[PaneFollowBack].Loaded() {
			cmds = append(cmds, m.fetchPane(PaneFollowBack))
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func summarizeRun(result domain.RunResult) string {
	var verb string
	switch result.Kind {
	case domain.RunUnfollow:
		verb = "Unfollowed"
	case domain.RunFollowBack:
		verb = "Followed back"
	case domain.RunUnstar:
		verb = "Unstarred"
	}

	summary := fmt.Sprintf("%s %d of %d", verb, result.Succeeded, result.Attempted)
	if n := len(result.Failures); n > 0 {
		summary += fmt.Sprintf(", %d failed (first: %s)", n, result.Failures[0].Target)
	}
	if result.Failed() {
		summary += " - aborted: " + common.ExtractErrorMessage(result.Err)
	}
	return summary
}
