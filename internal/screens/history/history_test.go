package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/router"
	"github.com/abhisek/quizbank/internal/selection"
	"github.com/abhisek/quizbank/internal/session"
)

type fakeLister struct {
	sessions []session.Snapshot
	err      error
	gotUser  string
	gotN     int
}

func (f *fakeLister) RecentSessions(_ context.Context, userID string, n int) ([]session.Snapshot, error) {
	f.gotUser, f.gotN = userID, n
	return f.sessions, f.err
}

func loaded(t *testing.T, l *fakeLister) *HistoryScreen {
	t.Helper()
	s := New(l, "u1")
	s.Update(s.Init()())
	return s
}

func TestHistoryScreen_Loading(t *testing.T) {
	s := New(&fakeLister{}, "u1")
	if !strings.Contains(s.View(80, 24), "Loading") {
		t.Error("expected loading view before data arrives")
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	l := &fakeLister{}
	s := loaded(t, l)
	if l.gotUser != "u1" || l.gotN != Limit {
		t.Errorf("listed %q %d", l.gotUser, l.gotN)
	}
	if !strings.Contains(s.View(80, 24), "No sessions yet") {
		t.Error("expected empty message")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := loaded(t, &fakeLister{err: errors.New("no table")})
	if !strings.Contains(s.View(80, 24), "no table") {
		t.Error("expected error in view")
	}
}

func TestHistoryScreen_ListAndExpand(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	l := &fakeLister{sessions: []session.Snapshot{
		{
			ID: "s2", Status: session.StatusCompleted, Score: 50, StartedAt: start,
			Config: session.Config{Mode: selection.ModeDue},
			Totals: session.Totals{Total: 2, Answered: 2, Correct: 1, Wrong: 1},
			Results: []ledger.AnswerResult{
				{QuestionID: "q1", QuestionText: "Boiling point of water?", UserAnswer: "A", CorrectAnswer: "C"},
				{QuestionID: "q2", UserAnswer: "B", CorrectAnswer: "B", IsCorrect: true},
			},
		},
		{ID: "s1", Status: session.StatusAbandoned, StartedAt: start.Add(-time.Hour),
			Config: session.Config{Mode: selection.ModeRandom}},
	}}
	s := loaded(t, l)

	view := s.View(120, 30)
	for _, want := range []string{"Due Today", "completed", "50%", "Quick Mix", "abandoned"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Boiling point") {
		t.Error("details should be collapsed")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 30), "Boiling point of water?") {
		t.Error("expected wrong answer in expanded details")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := loaded(t, &fakeLister{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
