package practice

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	svc "github.com/abhisek/quizbank/internal/practice"
	"github.com/abhisek/quizbank/internal/router"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/screens/summary"
	sess "github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/spacedrep"
	"github.com/abhisek/quizbank/internal/ui/components"
	"github.com/abhisek/quizbank/internal/ui/layout"
)

// StartFunc produces the runtime the screen drives. A nil runtime with a
// nil error means there is nothing to practice.
type StartFunc func(ctx context.Context) (*sess.Runtime, error)

// FromSelection prepares and begins a new session.
func FromSelection(s *svc.Service, userID string, cfg sess.Config) StartFunc {
	return func(ctx context.Context) (*sess.Runtime, error) {
		sel, err := s.Prepare(ctx, userID, cfg)
		if err != nil {
			return nil, err
		}
		if sel.Empty() {
			return nil, nil
		}
		return s.Begin(ctx, userID, sel)
	}
}

// FromSnapshot resumes a checkpointed session.
func FromSnapshot(s *svc.Service, userID string, snap sess.Snapshot) StartFunc {
	return func(ctx context.Context) (*sess.Runtime, error) {
		return s.Resume(ctx, userID, snap)
	}
}

type phase int

const (
	phaseLoading phase = iota
	phaseEmpty
	phaseAnswering
	phaseFeedback
	phaseConfirmQuit
	phaseEnding
)

// PracticeScreen implements screen.Screen for a running session.
type PracticeScreen struct {
	start   StartFunc
	rt      *sess.Runtime
	logger  *zap.Logger
	phase   phase
	options components.OptionList
	shownID string
	notice  string
	errMsg  string

	saveTemplate summary.TemplateSaver
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)
var _ screen.Capturing = (*PracticeScreen)(nil)

// New creates a PracticeScreen that starts its session on Init.
func New(start StartFunc, logger *zap.Logger) *PracticeScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PracticeScreen{start: start, logger: logger}
}

// WithTemplateSaver offers saving the session's configuration as a template
// on the summary screen.
func (s *PracticeScreen) WithTemplateSaver(save summary.TemplateSaver) *PracticeScreen {
	s.saveTemplate = save
	return s
}

func (s *PracticeScreen) Init() tea.Cmd {
	start := s.start
	return func() tea.Msg {
		rt, err := start(context.Background())
		return startedMsg{Runtime: rt, Err: err}
	}
}

func (s *PracticeScreen) Title() string {
	if s.rt == nil {
		return "Practice"
	}
	return s.rt.State().Config.Mode.Label()
}

// CapturesEsc keeps Esc for the quit dialog while a session is open.
func (s *PracticeScreen) CapturesEsc() bool {
	return s.rt != nil && s.phase != phaseEmpty
}

// Status shows position, then the countdown or pause marker.
func (s *PracticeScreen) Status() string {
	if s.rt == nil {
		return ""
	}
	st := s.rt.State()
	out := positionLabel(st)
	switch {
	case st.Paused():
		out += "   PAUSED"
	case st.Config.Timed():
		out += "   " + layout.FormatClock(st.Remaining)
	}
	return out
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseConfirmQuit:
		return []layout.KeyHint{
			{Key: "E", Description: "End & score"},
			{Key: "A", Description: "Abandon"},
			{Key: "N", Description: "Keep going"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "G/U/Y", Description: "Guessed/Unsure/Sure"},
			{Key: "F", Description: "Flag"},
			{Key: "Enter", Description: "Next"},
		}
	case phaseAnswering:
		if s.rt.State().Paused() {
			return []layout.KeyHint{{Key: "Space", Description: "Resume"}}
		}
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "S", Description: "Skip"},
			{Key: "F", Description: "Flag"},
			{Key: "←→", Description: "Move"},
			{Key: "Space", Description: "Pause"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return nil
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)
	case timerTickMsg:
		return s.handleTick()
	case endedMsg:
		return s.handleEnded(msg)
	case abandonedMsg:
		if msg.Err != nil {
			s.logger.Warn("abandon session", zap.Error(msg.Err))
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PracticeScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	if msg.Runtime == nil {
		s.phase = phaseEmpty
		return s, nil
	}
	s.rt = msg.Runtime
	s.syncQuestion()
	return s, tickCmd()
}

func (s *PracticeScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.rt == nil || s.phase == phaseEnding {
		return s, nil
	}
	res := s.rt.Tick()
	switch {
	case res.SessionExpired:
		s.notice = "Time is up."
		return s, s.end()
	case res.QuestionExpired && !res.Advanced && s.allResolved():
		s.notice = "Time is up."
		return s, s.end()
	case res.QuestionExpired:
		if res.AutoSkipped {
			s.notice = "Time ran out; question skipped."
		}
		s.syncQuestion()
	}
	return s, tickCmd()
}

func (s *PracticeScreen) handleEnded(msg endedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.logger.Error("end session", zap.Error(msg.Err))
	}
	if msg.Summary.SessionID == "" {
		s.errMsg = "could not end session"
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}
	scr := summary.New(msg.Summary, msg.Err)
	if s.saveTemplate != nil {
		scr = scr.WithTemplateSaver(s.rt.State().Config, s.saveTemplate)
	}
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: scr} }
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" || s.phase == phaseEmpty {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.rt == nil || s.phase == phaseEnding || s.phase == phaseLoading {
		return s, nil
	}

	if s.phase == phaseConfirmQuit {
		switch key {
		case "e", "E", "y", "Y":
			return s, s.end()
		case "a", "A":
			return s, s.abandon()
		case "n", "N", "esc":
			s.syncQuestion()
		}
		return s, nil
	}

	st := s.rt.State()
	if key == "esc" {
		s.phase = phaseConfirmQuit
		return s, nil
	}
	if key == "space" || key == " " {
		s.togglePause()
		return s, nil
	}
	if st.Paused() {
		return s, nil
	}
	s.notice = ""

	switch key {
	case "f", "F":
		s.toggleFlag()
		return s, nil
	case "right", "n", "N":
		return s, s.next()
	case "left", "p", "P":
		if _, err := s.rt.Prev(); err != nil {
			s.notice = err.Error()
		}
		s.syncQuestion()
		return s, nil
	}

	if s.phase == phaseFeedback {
		switch key {
		case "g", "G":
			s.setConfidence(spacedrep.ConfidenceGuessed)
		case "u", "U":
			s.setConfidence(spacedrep.ConfidenceUnsure)
		case "y", "Y":
			s.setConfidence(spacedrep.ConfidenceSure)
		case "enter":
			return s, s.next()
		}
		return s, nil
	}

	switch key {
	case "1", "2", "3", "4":
		s.answer(s.options.LabelAt(int(key[0] - '1')))
	case "enter":
		s.answer(s.options.CursorLabel())
	case "s", "S":
		s.skip()
		return s, s.next()
	default:
		s.options, _ = s.options.Update(msg)
	}
	return s, nil
}

func (s *PracticeScreen) answer(label string) {
	q, ok := s.rt.State().Current()
	if !ok || label == "" {
		return
	}
	res, err := s.rt.Answer(q.ID, label)
	if err != nil {
		s.notice = err.Error()
		return
	}
	s.options = s.options.Reveal(res.UserAnswer)
	s.phase = phaseFeedback
}

func (s *PracticeScreen) skip() {
	q, ok := s.rt.State().Current()
	if !ok {
		return
	}
	if err := s.rt.Skip(q.ID); err != nil && !errors.Is(err, sess.ErrAlreadyAnswered) {
		s.notice = err.Error()
	}
}

func (s *PracticeScreen) toggleFlag() {
	q, ok := s.rt.State().Current()
	if !ok {
		return
	}
	flagged, err := s.rt.Flag(q.ID)
	if err != nil {
		s.notice = err.Error()
		return
	}
	if flagged {
		s.notice = "Flagged for review."
	} else {
		s.notice = "Flag removed."
	}
}

func (s *PracticeScreen) setConfidence(c spacedrep.Confidence) {
	q, ok := s.rt.State().Current()
	if !ok {
		return
	}
	if err := s.rt.SetConfidence(q.ID, c); err != nil {
		s.notice = err.Error()
		return
	}
	s.notice = "Marked " + string(c) + "."
}

func (s *PracticeScreen) togglePause() {
	var err error
	if s.rt.State().Paused() {
		err = s.rt.Resume()
	} else {
		err = s.rt.Pause()
	}
	if err != nil {
		s.notice = err.Error()
	}
}

// next moves on, ending the session from the last question once every
// question has been answered or skipped.
func (s *PracticeScreen) next() tea.Cmd {
	moved, err := s.rt.Next()
	if err != nil {
		s.notice = err.Error()
		return nil
	}
	if !moved {
		if s.allResolved() {
			return s.end()
		}
		s.notice = "Some questions are still open. Press Esc to end anyway."
	}
	s.syncQuestion()
	return nil
}

func (s *PracticeScreen) allResolved() bool {
	return s.rt.State().Totals().Unanswered == 0
}

// syncQuestion rebuilds the option list when the current question changed
// and picks the phase from whether it is answered.
func (s *PracticeScreen) syncQuestion() {
	st := s.rt.State()
	q, ok := st.Current()
	if !ok {
		return
	}
	if q.ID != s.shownID {
		s.options = components.NewOptionList(q, st.OptionOrders[q.ID])
		s.shownID = q.ID
	}
	s.phase = phaseAnswering
	if res, ok := st.Result(q.ID); ok && res.Answered() {
		s.options = s.options.Reveal(res.UserAnswer)
		s.phase = phaseFeedback
	}
}

// end scores the session. It runs inside Update because the runtime is
// single-goroutine; the result is delivered as a message.
func (s *PracticeScreen) end() tea.Cmd {
	s.phase = phaseEnding
	sum, err := s.rt.End(context.Background())
	return func() tea.Msg { return endedMsg{Summary: sum, Err: err} }
}

func (s *PracticeScreen) abandon() tea.Cmd {
	s.phase = phaseEnding
	err := s.rt.Abandon(context.Background())
	return func() tea.Msg { return abandonedMsg{Err: err} }
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
