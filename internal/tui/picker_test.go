package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/denhq/den/internal/dashboard"
)

func testStates() []dashboard.ContainerState {
	return []dashboard.ContainerState{
		{
			ID:           "c1",
			Name:         "happy-ant",
			PaneContent:  "claude> thinking\nmore output",
			TerminalPort: 32768,
			LastChange:   time.Now().Add(-30 * time.Second),
		},
		{
			ID:          "c2",
			Name:        "clever-bear",
			PaneContent: "codex ready",
			LastChange:  time.Now().Add(-5 * time.Minute),
		},
	}
}

func TestNewPicker_BuildsItems(t *testing.T) {
	m := NewPicker(testStates())

	items := m.list.Items()
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}

	item := items[0].(sessionItem)
	if item.Title() != "happy-ant" {
		t.Errorf("Title() = %q", item.Title())
	}
	desc := item.Description()
	if !strings.Contains(desc, "port 32768") {
		t.Errorf("Description() missing port: %q", desc)
	}
	if !strings.Contains(desc, "claude> thinking") {
		t.Errorf("Description() missing pane line: %q", desc)
	}
}

func TestUpdate_EnterSelectsAttach(t *testing.T) {
	m := NewPicker(testStates())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	result := updated.(Model).Result()

	if result.Action != ActionAttach {
		t.Fatalf("Action = %v, want ActionAttach", result.Action)
	}
	if result.Session == nil || result.Session.Name != "happy-ant" {
		t.Errorf("Session = %+v", result.Session)
	}
}

func TestUpdate_OpenKey(t *testing.T) {
	m := NewPicker(testStates())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	result := updated.(Model).Result()

	if result.Action != ActionOpen {
		t.Fatalf("Action = %v, want ActionOpen", result.Action)
	}
}

func TestUpdate_StopKey(t *testing.T) {
	m := NewPicker(testStates())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	result := updated.(Model).Result()

	if result.Action != ActionStop {
		t.Fatalf("Action = %v, want ActionStop", result.Action)
	}
	if result.Session == nil || result.Session.ID != "c1" {
		t.Errorf("Session = %+v", result.Session)
	}
}

func TestUpdate_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
	} {
		m := NewPicker(testStates())
		updated, _ := m.Update(key)
		if result := updated.(Model).Result(); result.Action != ActionQuit {
			t.Errorf("key %v: Action = %v, want ActionQuit", key, result.Action)
		}
	}
}

func TestListView_Empty(t *testing.T) {
	out := ListView(nil)
	if !strings.Contains(out, "No sessions running") {
		t.Errorf("ListView() = %q", out)
	}
}

func TestListView_ListsSessions(t *testing.T) {
	out := ListView(testStates())
	if !strings.Contains(out, "happy-ant") || !strings.Contains(out, "clever-bear") {
		t.Errorf("ListView() missing sessions: %q", out)
	}
}

func TestFirstLine_Truncates(t *testing.T) {
	got := firstLine(strings.Repeat("a", 100), 10)
	if got != "aaaaaaa..." {
		t.Errorf("firstLine() = %q", got)
	}
}
