package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizbank/internal/bank"
)

func sampleQuestion() bank.Question {
	return bank.Question{
		ID:   "q1",
		Text: "Largest planet?",
		Options: []bank.Option{
			{Label: "A", Text: "Mars"},
			{Label: "B", Text: "Jupiter"},
			{Label: "C", Text: "Venus"},
			{Label: "D", Text: "Earth"},
		},
		CorrectOption: "B",
	}
}

func TestNewOptionList_Order(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		want  string
	}{
		{"natural", nil, "ABCD"},
		{"shuffled", []string{"D", "B", "A", "C"}, "DBAC"},
		{"partial", []string{"C"}, "CABD"},
		{"unknown and duplicate labels", []string{"Z", "B", "B"}, "BACD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewOptionList(sampleQuestion(), tt.order)
			var got string
			for i := range l.Options {
				got += l.LabelAt(i)
			}
			if got != tt.want {
				t.Errorf("order = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionList_Cursor(t *testing.T) {
	l := NewOptionList(sampleQuestion(), []string{"D", "C", "B", "A"})
	l, _ = l.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if l.Cursor != 0 {
		t.Errorf("cursor = %d, want 0 at top", l.Cursor)
	}
	for range 5 {
		l, _ = l.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if l.Cursor != 3 {
		t.Errorf("cursor = %d, want 3 at bottom", l.Cursor)
	}
	if l.CursorLabel() != "A" {
		t.Errorf("cursor label = %q, want A", l.CursorLabel())
	}
	if l.LabelAt(9) != "" {
		t.Error("expected empty label out of range")
	}
}

func TestOptionList_Reveal(t *testing.T) {
	l := NewOptionList(sampleQuestion(), nil).Reveal("A")
	if !l.Revealed || l.Chosen != "A" {
		t.Errorf("reveal = %+v", l)
	}
	view := l.View()
	if !strings.Contains(view, "Jupiter") || strings.Contains(view, "▸") {
		t.Errorf("unexpected revealed view:\n%s", view)
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	ran := ""
	m := NewMenu([]MenuItem{
		{Label: "Resume", Disabled: true},
		{Label: "Smart", Detail: "20 questions", Action: func() tea.Cmd { ran = "smart"; return nil }},
		{Label: "Flagged", Disabled: true},
		{Label: "Quit", Action: func() tea.Cmd { ran = "quit"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("selected = %d, want first enabled item", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("selected = %d, want 3 (disabled skipped)", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if ran != "quit" {
		t.Errorf("ran = %q, want quit", ran)
	}
	if !strings.Contains(m.View(), "20 questions") {
		t.Error("expected detail in menu view")
	}
}

func TestProgressBar(t *testing.T) {
	if got := Ratio(1, 0); got != 0 {
		t.Errorf("Ratio(1, 0) = %v", got)
	}
	p := NewProgressBar("Goal", 1.7, true, 30)
	if p.Percent != 1 {
		t.Errorf("percent = %v, want clamped to 1", p.Percent)
	}
	if !strings.Contains(p.View(), "100%") {
		t.Errorf("view = %q", p.View())
	}
}
