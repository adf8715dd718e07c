package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

// OptionList shows a question's options in display order. Options are
// numbered by position but always answered by label, so a shuffled order
// never changes what counts as correct.
type OptionList struct {
	Options  []bank.Option
	Cursor   int
	Chosen   string // label the learner picked, "" if none
	Correct  string // correct label, shown once Revealed
	Revealed bool
}

// NewOptionList arranges q's options by order. Labels missing from order
// keep their natural position after the ordered ones.
func NewOptionList(q bank.Question, order []string) OptionList {
	opts := make([]bank.Option, 0, len(q.Options))
	used := make(map[string]bool, len(q.Options))
	for _, label := range order {
		if used[label] {
			continue
		}
		for _, o := range q.Options {
			if o.Label == label {
				opts = append(opts, o)
				used[label] = true
				break
			}
		}
	}
	for _, o := range q.Options {
		if !used[o.Label] {
			opts = append(opts, o)
		}
	}
	return OptionList{Options: opts, Correct: q.CorrectOption}
}

// Update moves the cursor.
func (l OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if l.Cursor > 0 {
			l.Cursor--
		}
	case "down", "j":
		if l.Cursor < len(l.Options)-1 {
			l.Cursor++
		}
	}
	return l, nil
}

// LabelAt returns the label shown at position i, or "".
func (l OptionList) LabelAt(i int) string {
	if i < 0 || i >= len(l.Options) {
		return ""
	}
	return l.Options[i].Label
}

// CursorLabel returns the label under the cursor.
func (l OptionList) CursorLabel() string {
	return l.LabelAt(l.Cursor)
}

// Reveal marks chosen and shows the correct option.
func (l OptionList) Reveal(chosen string) OptionList {
	l.Chosen = chosen
	l.Revealed = true
	return l
}

// View renders the options, one per line.
func (l OptionList) View() string {
	var b strings.Builder
	for i, o := range l.Options {
		prefix := "  "
		if i == l.Cursor && !l.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, o.Text)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case l.Revealed && o.Label == l.Correct:
			style = theme.Correct
		case l.Revealed && o.Label == l.Chosen:
			style = theme.Incorrect
		case l.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == l.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
