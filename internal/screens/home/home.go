package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/router"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/selection"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/stats"
	"github.com/abhisek/quizbank/internal/ui/components"
	"github.com/abhisek/quizbank/internal/ui/layout"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

// Overview is what the home screen shows.
type Overview struct {
	Dashboard stats.Dashboard
	Resume    *session.Snapshot
	Templates []session.Template
}

// Backend loads the overview and builds the screens the menu opens.
type Backend interface {
	Overview(ctx context.Context) (Overview, error)
	Discard(ctx context.Context, sessionID string) error
	Practice(cfg session.Config) screen.Screen
	Resume(snap session.Snapshot) screen.Screen
	History() screen.Screen
}

type loadedMsg struct {
	Overview Overview
	Err      error
}

type discardedMsg struct {
	Err error
}

// HomeScreen is the main menu with the progress dashboard.
type HomeScreen struct {
	backend  Backend
	base     session.Config
	overview Overview
	menu     components.Menu
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen. base carries the default count, timer and
// shuffle settings every mode starts from.
func New(b Backend, base session.Config) *HomeScreen {
	h := &HomeScreen{backend: b, base: base}
	h.menu = components.NewMenu(h.items())
	return h
}

// Init reloads the overview; it runs again whenever the stack pops back
// to home.
func (h *HomeScreen) Init() tea.Cmd {
	b := h.backend
	return func() tea.Msg {
		ov, err := b.Overview(context.Background())
		return loadedMsg{Overview: ov, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
	}
	if h.overview.Resume != nil {
		hints = append(hints, layout.KeyHint{Key: "D", Description: "Discard interrupted"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		h.loaded = true
		h.errMsg = ""
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
		} else {
			h.overview = msg.Overview
		}
		h.menu = components.NewMenu(h.items())
		return h, nil
	case discardedMsg:
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		return h, h.Init()
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return h, tea.Quit
		case "d", "D":
			if snap := h.overview.Resume; snap != nil {
				b, id := h.backend, snap.ID
				h.overview.Resume = nil
				h.menu = components.NewMenu(h.items())
				return h, func() tea.Msg {
					return discardedMsg{Err: b.Discard(context.Background(), id)}
				}
			}
			return h, nil
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) items() []components.MenuItem {
	var items []components.MenuItem

	if snap := h.overview.Resume; snap != nil {
		s := *snap
		items = append(items, components.MenuItem{
			Label:  "Resume " + s.Config.Mode.Label(),
			Detail: fmt.Sprintf("%d of %d answered", s.Totals.Answered, s.Totals.Total),
			Action: func() tea.Cmd { return push(h.backend.Resume(s)) },
		})
	}

	d := h.overview.Dashboard
	for _, m := range selection.Modes {
		cfg := h.base
		cfg.Mode = m
		item := components.MenuItem{
			Label:  m.Label(),
			Detail: m.Description(),
			Action: func() tea.Cmd { return push(h.backend.Practice(cfg)) },
		}
		if h.loaded && d.TotalQuestions == 0 {
			item.Disabled = true
		}
		switch {
		case m == selection.ModeFlagged && h.loaded && d.Flagged == 0:
			item.Disabled = true
		case m == selection.ModeDue && d.DueToday > 0:
			item.Detail = fmt.Sprintf("%d due today", d.DueToday)
		}
		items = append(items, item)
	}

	for _, tpl := range h.overview.Templates {
		cfg := tpl.Config
		items = append(items, components.MenuItem{
			Label:  "★ " + tpl.Name,
			Detail: fmt.Sprintf("%s, %d questions", cfg.Mode.Label(), cfg.Count),
			Action: func() tea.Cmd { return push(h.backend.Practice(cfg)) },
		})
	}

	items = append(items,
		components.MenuItem{
			Label:  "History",
			Detail: "past sessions",
			Action: func() tea.Cmd { return push(h.backend.History()) },
		},
		components.MenuItem{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)
	return items
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(width-4, 72)
	center := func(s string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, s) }

	var sections []string
	switch {
	case h.errMsg != "":
		sections = append(sections, center(lipgloss.NewStyle().Foreground(theme.Error).
			Render("Could not load progress: "+h.errMsg)))
	case !h.loaded:
		sections = append(sections, center(theme.Hint.Render("Loading progress...")))
	case h.overview.Dashboard.TotalQuestions == 0:
		sections = append(sections, center(theme.Hint.Render(
			"The question bank is empty. Add questions with `quizbank import FILE`.")))
	default:
		sections = append(sections, center(renderDashboard(h.overview.Dashboard, cw)))
	}

	menuBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Width(cw).
		Render(strings.TrimRight(h.menu.View(), "\n"))
	sections = append(sections, center(menuBox))

	return "\n" + strings.Join(sections, "\n\n")
}

// renderDashboard shows mastery spread, review load and the daily goal.
func renderDashboard(d stats.Dashboard, width int) string {
	var b strings.Builder

	line := fmt.Sprintf("%d questions · %d seen · accuracy %.0f%%",
		d.TotalQuestions, d.Seen, d.Accuracy()*100)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(line))
	b.WriteString("\n")

	var levels []string
	for _, l := range mastery.Levels {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if int(l) < len(theme.Levels) {
			style = theme.Levels[l]
		}
		levels = append(levels, style.Render(fmt.Sprintf("%s %d", l, d.Distribution[l])))
	}
	b.WriteString(strings.Join(levels, "  "))
	b.WriteString("\n")

	review := fmt.Sprintf("Due today %d · Stale %d · Flagged %d · Near mastery %d",
		d.DueToday, d.Stale, d.Flagged, d.NearMastery)
	b.WriteString(theme.Hint.Render(review))
	b.WriteString("\n\n")

	goal := components.NewProgressBar(
		fmt.Sprintf("Today %d/%d", d.AnsweredToday, d.DailyGoal),
		d.GoalProgress(), false, width)
	b.WriteString(goal.View())
	return b.String()
}
