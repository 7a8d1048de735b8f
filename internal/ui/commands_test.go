package ui

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/followsweep/internal/graph"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantType CommandType
		wantArgs []string
	}{
		{":q", CommandQuit, []string{}},
		{":quit", CommandQuit, []string{}},
		{":help", CommandHelp, []string{}},
		{":logs", CommandLogs, []string{}},
		{":refresh", CommandRefresh, []string{}},
		{":invalidate", CommandInvalidate, []string{}},
		{":exclude user alice", CommandExclude, []string{"user", "alice"}},
		{"  :include repo a/x  ", CommandInclude, []string{"repo", "a/x"}},
		{":clear-exclusions", CommandClearExclusions, []string{}},
		{":bogus", CommandUnknown, []string{}},
		{"q", CommandUnknown, nil},
		{":", CommandUnknown, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := ParseCommand(tt.input)
			if cmd.Type != tt.wantType {
				t.Errorf("ParseCommand(%q).Type = %v, want %v", tt.input, cmd.Type, tt.wantType)
			}
			if len(cmd.Args) != len(tt.wantArgs) || (len(tt.wantArgs) > 0 && !reflect.DeepEqual(cmd.Args, tt.wantArgs)) {
				t.Errorf("ParseCommand(%q).Args = %v, want %v", tt.input, cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestGetContextualShortcuts(t *testing.T) {
	r := NewCommandRegistry()

	starred := r.GetContextualShortcuts(PaneStarred)
	if !slices.Contains(starred, "<S> Unstar unmarked") {
		t.Errorf("expected unstar shortcut in starred pane, got %v", starred)
	}
	if slices.Contains(starred, "<U> Unfollow all") {
		t.Error("unfollow shortcut must not show in starred pane")
	}
	if !slices.Contains(starred, "<space> Mark") {
		t.Errorf("expected space to be rendered by name, got %v", starred)
	}

	exclusions := r.GetContextualShortcuts(PaneExclusions)
	if !slices.Contains(exclusions, "<d> Remove exclusion") || slices.Contains(exclusions, "<x> Exclude") {
		t.Errorf("unexpected exclusions shortcuts %v", exclusions)
	}
}

func TestExecuteExcludeCommands(t *testing.T) {
	h := newHarness(&mockClient{})

	run := func(input string) {
		h.key(":")
		h.typeText(strings.TrimPrefix(input, ":"))
		h.key("enter")
	}

	run(":exclude user alice")
	run(":exclude repo a/x")
	list := h.exclusions.Snapshot()
	if !list.Users.Has("alice") || !list.Repos.Has("a/x") {
		t.Fatalf("expected alice and a/x excluded, got %v %v", list.Users.Sorted(), list.Repos.Sorted())
	}

	run(":include user alice")
	if h.exclusions.Snapshot().Users.Has("alice") {
		t.Error("expected alice to be included again")
	}

	run(":exclude repo not-a-repo")
	if msg, isErr := h.status(); !isErr || !strings.Contains(msg, "update exclusions") {
		t.Errorf("expected validation error, got %q", msg)
	}
	if h.exclusions.Snapshot().Repos.Has("not-a-repo") {
		t.Error("malformed repo must not be stored")
	}

	run(":clear-exclusions")
	if h.exclusions.Snapshot().Len() != 0 {
		t.Error("expected exclusions to be cleared")
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	h := newHarness(&mockClient{})

	h.key(":")
	h.typeText("frobnicate")
	h.key("enter")

	msg, isErr := h.status()
	if !isErr || msg != "Unknown command: frobnicate" {
		t.Errorf("unexpected status %q", msg)
	}
	if h.model.commandBar.IsActive() {
		t.Error("command bar should close after enter")
	}
}

func TestInvalidateCommandDropsCache(t *testing.T) {
	h := newHarness(&mockClient{following: []string{"alice"}})
	h.key("r")
	if !h.model.coordinator.Cache().Valid(graph.KindFollowing) {
		t.Fatal("expected following to be cached after fetch")
	}
	if got := h.model.statusBar.CacheState(); got != "graph cached" {
		t.Errorf("expected status bar to report a cached graph, got %q", got)
	}

	h.key(":")
	h.typeText("invalidate")
	h.key("enter")

	if h.model.coordinator.Cache().Valid(graph.KindFollowing) {
		t.Error("expected cache to be invalidated")
	}
	if got := h.model.statusBar.CacheState(); got != "graph not cached" {
		t.Errorf("expected status bar to report an empty cache, got %q", got)
	}
}

func TestClearCacheToggleInvalidatesBeforeFetch(t *testing.T) {
	client := &mockClient{following: []string{"alice"}}
	h := newHarness(client)
	h.key("r")

	client.following = []string{"alice", "bob"}
	h.key("r")
	if got := h.model.lists[PaneNonFollowers].Len(); got != 1 {
		t.Fatalf("expected cached result with 1 row, got %d", got)
	}

	h.key("c", "r")
	if got := h.model.lists[PaneNonFollowers].Len(); got != 2 {
		t.Errorf("expected refetched result with 2 rows, got %d", got)
	}
}

func TestQuitCommand(t *testing.T) {
	h := newHarness(&mockClient{})

	h.key(":")
	h.typeText("q")
	_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected :q to quit")
	}
}
