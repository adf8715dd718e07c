package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.phase == phaseEmpty:
		return renderEmpty(width)
	case s.rt == nil:
		return renderLoading(width)
	case s.phase == phaseConfirmQuit:
		return renderQuitConfirm(width, s.rt.State().Totals())
	case s.phase == phaseEnding:
		return renderLoading(width)
	}
	return s.renderQuestionView(width)
}

func positionLabel(st *sess.State) string {
	return fmt.Sprintf("Q %d/%d", st.CurrentIndex+1, len(st.Questions))
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
}

// renderQuestionView renders the current question, its options and, once
// answered, the feedback block.
func (s *PracticeScreen) renderQuestionView(width int) string {
	st := s.rt.State()
	q, ok := st.Current()
	if !ok {
		return renderLoading(width)
	}
	if st.Paused() {
		return centered(width).Foreground(theme.Accent).Bold(true).
			Render("\n\n\nPaused\n\nPress Space to continue.")
	}

	var b strings.Builder

	// Info line.
	totals := st.Totals()
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", q.SubjectName, q.ChapterName))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d  %s %d  skipped %d",
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), totals.Correct,
			lipgloss.NewStyle().Foreground(theme.Error).Render("✗"), totals.Wrong,
			totals.Skipped))
	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// Markers.
	var marks []string
	if q.Important {
		marks = append(marks, theme.Flagged.Render("★ important"))
	}
	if st.IsFlagged(q.ID) {
		marks = append(marks, theme.Flagged.Render("⚑ flagged"))
	}
	if res, ok := st.Result(q.ID); ok && res.Skipped && !res.Answered() {
		marks = append(marks, theme.Skipped.Render("skipped"))
	}
	if len(marks) > 0 {
		b.WriteString(centered(width).Render(strings.Join(marks, "   ")))
		b.WriteString("\n")
	}

	textWidth := min(width-8, 76)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Bold(true).Render(q.Text)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(textWidth).Render(s.options.View())))

	if s.phase == phaseFeedback {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width, textWidth))
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(centered(width).Foreground(theme.Accent).Render(s.notice))
	}
	return b.String()
}

// renderFeedback renders the verdict and explanation for an answered question.
func (s *PracticeScreen) renderFeedback(width, textWidth int) string {
	st := s.rt.State()
	q, _ := st.Current()
	res, _ := st.Result(q.ID)

	var b strings.Builder
	if res.IsCorrect {
		b.WriteString(centered(width).Inherit(theme.Correct).Render("Correct!"))
	} else {
		b.WriteString(centered(width).Inherit(theme.Incorrect).Render("Not quite"))
		b.WriteString("\n")
		b.WriteString(centered(width).Foreground(theme.TextDim).
			Render(fmt.Sprintf("Correct answer: %s", q.OptionText(q.CorrectOption))))
	}
	b.WriteString("\n")

	if q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(q.Explanation)))
		b.WriteString("\n")
	}

	conf := "not rated"
	if res.Confidence != "" {
		conf = string(res.Confidence)
	}
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.TextDim).
		Render(fmt.Sprintf("Confidence: %s   [G]uessed  [U]nsure  [Y] sure", conf)))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int, totals sess.Totals) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render("Leave this session?"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d of %d answered. Open questions count as skipped.", totals.Answered, totals.Total)))
	b.WriteString("\n\n")
	b.WriteString(centered(width).Foreground(theme.Success).Render("[E] End and score"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.Error).Render("[A] Abandon without scoring"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.Primary).Render("[N] Keep going"))
	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width int) string {
	return centered(width).Foreground(theme.TextDim).Render("\n\n\n  Preparing your session...")
}

func renderEmpty(width int) string {
	return centered(width).Foreground(theme.TextDim).Italic(true).
		Render("\n\n\n  Nothing to practice in this mode right now.\n\n  Press any key to go back.")
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return centered(width).Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
