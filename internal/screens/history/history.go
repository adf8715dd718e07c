package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/router"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/ui/layout"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

// Limit is how many sessions the screen lists.
const Limit = 50

// Lister reads session history, newest first.
type Lister interface {
	RecentSessions(ctx context.Context, userID string, n int) ([]session.Snapshot, error)
}

type historyLoadedMsg struct {
	Sessions []session.Snapshot
	Err      error
}

// HistoryScreen lists past sessions.
type HistoryScreen struct {
	lister   Lister
	userID   string
	sessions []session.Snapshot
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(lister Lister, userID string) *HistoryScreen {
	return &HistoryScreen{
		lister:   lister,
		userID:   userID,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	lister, userID := s.lister, s.userID
	return func() tea.Msg {
		sessions, err := lister.RecentSessions(context.Background(), userID, Limit)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-16s %-11s %2d/%-2d answered  %3d%%",
			prefix, sess.StartedAt.Local().Format("Jan 02 15:04"), sess.Config.Mode.Label(),
			statusLabel(sess.Status), sess.Totals.Answered, sess.Totals.Total, sess.Score)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderDetail(sess, width))
		}
	}

	return b.String()
}

// renderDetail shows the counters and the questions answered wrong.
func renderDetail(sess session.Snapshot, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder

	t := sess.Totals
	counts := fmt.Sprintf("    correct %d · wrong %d · skipped %d · unanswered %d",
		t.Correct, t.Wrong, t.Skipped, t.Unanswered)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(counts)))
	b.WriteString("\n")

	for _, r := range sess.Results {
		if !r.Answered() || r.IsCorrect {
			continue
		}
		text := r.QuestionText
		if text == "" {
			text = r.QuestionID
		}
		line := fmt.Sprintf("    ✗ %s  (you %s, correct %s)", text, r.UserAnswer, r.CorrectAnswer)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func statusLabel(s session.Status) string {
	switch s {
	case session.StatusCompleted:
		return "completed"
	case session.StatusAbandoned:
		return "abandoned"
	case session.StatusPaused, session.StatusInProgress:
		return "interrupted"
	}
	return string(s)
}
