package views

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/followsweep/internal/logger"
)

func TestLogsView_ErrorsOnly(t *testing.T) {
	logger.Log("fetched following")
	logger.LogError("UNSTAR", "a/x", errors.New("boom"))

	m := NewLogsView()
	m.SetSize(100, 40)
	m.Activate()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})

	if len(m.logs) == 0 {
		t.Fatal("expected the error entry to be listed")
	}
	for _, entry := range m.logs {
		if entry.Level != logger.LevelError {
			t.Errorf("expected only errors, got %s", entry)
		}
	}
}

func TestLogLineColor(t *testing.T) {
	tests := []struct {
		level logger.Level
		want  string
	}{
		{logger.LevelError, "#EF4444"},
		{logger.LevelMutation, "#F59E0B"},
		{logger.LevelRun, "#7C3AED"},
		{logger.LevelFileWrite, "#10B981"},
		{logger.LevelInfo, "#E5E7EB"},
	}

	for _, tt := range tests {
		if got := logLineColor(tt.level); got != tt.want {
			t.Errorf("logLineColor(%s) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestLogsView_ScrollIsBounded(t *testing.T) {
	m := NewLogsView()
	m.SetSize(100, 20)
	m.Activate()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	if m.offset != 0 {
		t.Errorf("expected offset 0 at top, got %d", m.offset)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	if m.offset != 0 {
		t.Errorf("scrolling up at top must not go negative, got %d", m.offset)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	if m.offset != m.maxOffset() {
		t.Errorf("expected offset %d at bottom, got %d", m.maxOffset(), m.offset)
	}
}

func TestLogsView_InactiveIgnoresKeys(t *testing.T) {
	m := NewLogsView()
	if cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}); cmd != nil {
		t.Error("expected nil cmd while inactive")
	}
	if m.View() != "" {
		t.Error("expected empty view while inactive")
	}
}
