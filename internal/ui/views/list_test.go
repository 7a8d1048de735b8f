package views

import (
	"reflect"
	"strings"
	"testing"
)

func newTestList(ids ...string) *ListViewModel {
	m := NewListView("Test", "Nothing here")
	m.SetSize(120, 40)
	items := make([]ListItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, ListItem{ID: id})
	}
	m.SetItems(items)
	return m
}

func TestListView_NotLoadedShowsHint(t *testing.T) {
	m := NewListView("Starred", "No starred repositories")
	m.SetSize(120, 40)

	if m.Loaded() {
		t.Error("expected list to start unloaded")
	}
	if !strings.Contains(m.View(), "Press r to fetch") {
		t.Error("expected fetch hint before first load")
	}

	m.SetItems(nil)
	if !strings.Contains(m.View(), "No starred repositories") {
		t.Error("expected empty message after loading nothing")
	}
}

func TestListView_TargetsFallBackToCursor(t *testing.T) {
	m := newTestList("alice", "bob", "carol")

	if got := m.Targets(); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Errorf("expected cursor row as target, got %v", got)
	}

	m.ToggleMark()
	m.MarkAll([]string{"carol"})
	if got := m.Targets(); !reflect.DeepEqual(got, []string{"alice", "carol"}) {
		t.Errorf("expected marked rows in row order, got %v", got)
	}
}

func TestListView_ToggleMarkTwiceUnmarks(t *testing.T) {
	m := newTestList("alice")

	m.ToggleMark()
	m.ToggleMark()
	if len(m.Marked()) != 0 {
		t.Errorf("expected no marks, got %v", m.Marked())
	}
}

func TestListView_MarkAllCountsOnlyPresentRows(t *testing.T) {
	m := newTestList("a/x", "a/y")

	if n := m.MarkAll([]string{"a/y", "b/z"}); n != 1 {
		t.Errorf("expected 1 match, got %d", n)
	}
}

func TestListView_SetItemsDropsStaleMarks(t *testing.T) {
	m := newTestList("alice", "bob")
	m.MarkAll([]string{"alice", "bob"})

	m.SetItems([]ListItem{{ID: "bob"}, {ID: "carol"}})
	if got := m.Marked(); !reflect.DeepEqual(got, []string{"bob"}) {
		t.Errorf("expected only bob to stay marked, got %v", got)
	}
}

func TestListView_EmptyListHasNoTargets(t *testing.T) {
	m := newTestList()
	if m.Targets() != nil || m.Selected() != nil {
		t.Error("expected no targets in an empty list")
	}
}
