package summary

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/router"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/ui/components"
	"github.com/abhisek/quizbank/internal/ui/layout"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

// TemplateSaver stores cfg as a named session template.
type TemplateSaver func(ctx context.Context, name string, cfg session.Config) error

type templateSavedMsg struct {
	Name string
	Err  error
}

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary   session.Summary
	saveErr   error
	showWrong bool

	config  session.Config
	saver   TemplateSaver
	naming  bool
	input   components.TextInput
	saved   string
	tmplErr string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.Capturing = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. saveErr is the error returned when the
// results were scored; the summary itself is always complete.
func New(summary session.Summary, saveErr error) *SummaryScreen {
	return &SummaryScreen{summary: summary, saveErr: saveErr}
}

// WithTemplateSaver lets the learner save the session's configuration as a
// template.
func (s *SummaryScreen) WithTemplateSaver(cfg session.Config, save TemplateSaver) *SummaryScreen {
	s.config = cfg
	s.saver = save
	return s
}

// CapturesEsc keeps Esc for cancelling the template name prompt.
func (s *SummaryScreen) CapturesEsc() bool {
	return s.naming
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	if s.naming {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{{Key: "W", Description: "Review mistakes"}}
	if s.saver != nil && s.saved == "" {
		hints = append(hints, layout.KeyHint{Key: "T", Description: "Save as template"})
	}
	return append(hints, layout.KeyHint{Key: "Enter", Description: "Home"})
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case templateSavedMsg:
		if msg.Err != nil {
			s.tmplErr = msg.Err.Error()
			return s, nil
		}
		s.saved = msg.Name
		return s, nil
	case tea.KeyMsg:
		if s.naming {
			return s.handleNaming(msg)
		}
		switch msg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "w", "W":
			s.showWrong = !s.showWrong
		case "t", "T":
			if s.saver != nil && s.saved == "" {
				s.naming = true
				s.tmplErr = ""
				s.input = components.NewTextInput("Template name:", s.summary.Mode.Label(), session.MaxTemplateNameLen)
				return s, s.input.Init()
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) handleNaming(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.naming = false
		return s, nil
	case "enter":
		name := s.input.Value()
		if name == "" {
			name = s.summary.Mode.Label()
		}
		s.naming = false
		save, cfg := s.saver, s.config
		return s, func() tea.Msg {
			return templateSavedMsg{Name: name, Err: save(context.Background(), name, cfg)}
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder

	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("Session complete!"))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.TextDim).Render(fmt.Sprintf("%s · Duration: %s",
		sum.Mode.Label(), layout.FormatClock(int(sum.Duration().Seconds())))))
	b.WriteString("\n\n")

	scoreBar := components.NewProgressBar(fmt.Sprintf("Score %d%%", sum.Score),
		float64(sum.Score)/100, false, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, scoreBar.View()))
	b.WriteString("\n\n")

	t := sum.Totals
	statsLine := fmt.Sprintf("Questions: %d    Correct: %d    Wrong: %d    Skipped: %d",
		t.Total, t.Correct, t.Wrong, t.Skipped)
	b.WriteString(center.Foreground(theme.Text).Render(statsLine))
	b.WriteString("\n")

	if n := sum.NewlyMastered(); n > 0 {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("%d question(s) newly mastered", n)))
		b.WriteString("\n")
	}
	if up, down := movement(sum.Changes); up+down > 0 {
		b.WriteString(center.Foreground(theme.TextDim).
			Render(fmt.Sprintf("Mastery: %d up, %d down", up, down)))
		b.WriteString("\n")
	}

	if s.saveErr != nil {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.Error).
			Render("Some results could not be saved: " + s.saveErr.Error()))
		b.WriteString("\n")
	}

	switch {
	case s.naming:
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
		b.WriteString("\n")
	case s.saved != "":
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.Success).Render(fmt.Sprintf("Saved template %q", s.saved)))
		b.WriteString("\n")
	case s.tmplErr != "":
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.Error).Render("Could not save template: " + s.tmplErr))
		b.WriteString("\n")
	}

	if s.showWrong {
		b.WriteString("\n")
		b.WriteString(s.renderMistakes(width))
	}

	return b.String()
}

// renderMistakes lists wrong answers with the correct option.
func (s *SummaryScreen) renderMistakes(width int) string {
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Mistakes")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")

	wrong := 0
	for _, r := range s.summary.Results {
		if !r.Answered() || r.IsCorrect {
			continue
		}
		wrong++
		line := fmt.Sprintf("%s  you: %s  correct: %s", truncate(r.QuestionText, 48), r.UserAnswer, r.CorrectAnswer)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
		b.WriteString("\n")
	}
	if wrong == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("No mistakes this time.")))
		b.WriteString("\n")
	}
	return b.String()
}

func movement(changes []ledger.Change) (up, down int) {
	for _, c := range changes {
		switch {
		case c.After > c.Before:
			up++
		case c.After < c.Before:
			down++
		}
	}
	return up, down
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
