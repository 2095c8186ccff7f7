package resolver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/finishing"
	"github.com/Iron-Ham/finishcopy/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea"
)

var sampleConflicts = []finishing.Conflict{
	{GroupID: 7, GroupName: "G7", WallID: 2, WallName: "W2"},
	{GroupID: 7, GroupName: "G7", WallID: 5, WallName: "W5"},
	{GroupID: 8, GroupName: "Lobby", WallID: 9, WallName: "W9"},
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(m tea.Model, keys ...string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(keyMsg(k))
	}
	return m, cmd
}

func TestPromptModel_Choices(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want finishing.Resolution
	}{
		{"enter takes the first link", []string{"enter"}, finishing.ResolutionSkip},
		{"down then enter", []string{"j", "enter"}, finishing.ResolutionDissolve},
		{"tab wraps", []string{"tab", "tab", "tab", "enter"}, finishing.ResolutionSkip},
		{"up wraps to cancel", []string{"up", "enter"}, finishing.ResolutionAbort},
		{"number key", []string{"2"}, finishing.ResolutionDissolve},
		{"cancel link", []string{"3"}, finishing.ResolutionAbort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := send(NewPromptModel(sampleConflicts), tt.keys...)
			if cmd == nil {
				t.Fatal("choosing a link should quit the prompt")
			}
			got, ok := m.(PromptModel).Result()
			if !ok || got != tt.want {
				t.Errorf("Result() = %v, %v; want %v", got, ok, tt.want)
			}
		})
	}
}

func TestPromptModel_Close(t *testing.T) {
	for _, k := range []string{"esc", "q"} {
		m, cmd := send(NewPromptModel(sampleConflicts), k)
		if cmd == nil {
			t.Errorf("%s did not quit", k)
		}
		if _, ok := m.(PromptModel).Result(); ok {
			t.Errorf("%s produced a resolution", k)
		}
	}
}

func TestPromptModel_View(t *testing.T) {
	styles.SetActiveTheme(styles.ThemeMono)
	t.Cleanup(func() { styles.SetActiveTheme(styles.ThemeDefault) })

	var m tea.Model = NewPromptModel(sampleConflicts)
	view := m.View()
	if !strings.Contains(view, "3 selected walls already belong to 2 groups.") {
		t.Errorf("summary missing:\n%s", view)
	}
	for _, label := range []string{"Skip grouped walls and continue", "Ungroup the conflicting groups", "Cancel"} {
		if !strings.Contains(view, label) {
			t.Errorf("link %q missing:\n%s", label, view)
		}
	}
	if strings.Contains(view, "G7: W2 (2)") {
		t.Error("details shown before expanding")
	}

	m, _ = send(m, "d")
	view = m.View()
	first := strings.Index(view, "G7: W2 (2)")
	last := strings.Index(view, "Lobby: W9 (9)")
	if first < 0 || last < 0 || first > last {
		t.Errorf("expanded details missing or out of order:\n%s", view)
	}
}

func TestFixed(t *testing.T) {
	for _, r := range finishing.Resolutions() {
		got, err := NewFixed(r, nil).Resolve(sampleConflicts)
		if err != nil || got != r {
			t.Errorf("Fixed(%v).Resolve() = %v, %v", r, got, err)
		}
	}
}

func TestSelect(t *testing.T) {
	var out bytes.Buffer

	tests := []struct {
		policy  string
		want    finishing.Resolution
		wantErr bool
	}{
		{PolicySkip, finishing.ResolutionSkip, false},
		{PolicyDissolve, finishing.ResolutionDissolve, false},
		{PolicyAbort, finishing.ResolutionAbort, false},
		// A buffer is never a terminal.
		{PolicyPrompt, finishing.ResolutionAbort, false},
		{"ask", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			r, err := Select(tt.policy, strings.NewReader(""), &out, nil)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidInput) {
					t.Errorf("Select() error = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			got, err := r.Resolve(sampleConflicts)
			if err != nil || got != tt.want {
				t.Errorf("Resolve() = %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func TestIsValidPolicy(t *testing.T) {
	for _, p := range ValidPolicies() {
		if !IsValidPolicy(p) {
			t.Errorf("IsValidPolicy(%q) = false", p)
		}
	}
	if IsValidPolicy("ignore") {
		t.Error("IsValidPolicy(ignore) = true")
	}
}
