package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/selection"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusConfiguring Status = "configuring"
	StatusInProgress  Status = "in_progress"
	StatusPaused      Status = "paused"
	StatusCompleted   Status = "completed"
	StatusAbandoned   Status = "abandoned"
)

// Finished reports whether the session reached a terminal state.
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// TimerType selects how the session clock runs.
type TimerType string

const (
	TimerNone        TimerType = "none"
	TimerPerQuestion TimerType = "per_question"
	TimerFullSession TimerType = "full_session"
)

// ParseTimerType converts a user-supplied name into a TimerType.
func ParseTimerType(s string) (TimerType, error) {
	switch t := TimerType(strings.ToLower(strings.TrimSpace(s))); t {
	case TimerNone, TimerPerQuestion, TimerFullSession:
		return t, nil
	case "":
		return TimerNone, nil
	}
	return "", fmt.Errorf("unknown timer type %q", s)
}

// Config is the learner's choice of how to run a session.
type Config struct {
	Mode             selection.Mode `json:"mode"`
	Scope            bank.Scope     `json:"scope"`
	Count            int            `json:"count"`
	TimerType        TimerType      `json:"timer_type"`
	TimerValue       int            `json:"timer_value"`
	ShuffleQuestions bool           `json:"shuffle_questions"`
	ShuffleOptions   bool           `json:"shuffle_options"`
}

// InitialRemaining returns the countdown in seconds the timer starts from.
// TimerValue is seconds per question or minutes for the whole session.
func (c Config) InitialRemaining() int {
	if c.TimerValue <= 0 {
		return 0
	}
	switch c.TimerType {
	case TimerPerQuestion:
		return c.TimerValue
	case TimerFullSession:
		return c.TimerValue * 60
	}
	return 0
}

// Timed reports whether a countdown runs.
func (c Config) Timed() bool {
	return c.InitialRemaining() > 0
}

// State is the in-memory state of one practice session.
type State struct {
	// ID is the session UUID.
	ID string

	// UserID owns the session.
	UserID string

	// Config is fixed at start.
	Config Config

	// Questions in presentation order.
	Questions []bank.Question

	// OptionOrders holds the shuffled option labels per question when
	// option shuffling is on.
	OptionOrders map[string][]string

	// CurrentIndex is the question on screen.
	CurrentIndex int

	// Answers maps question ID to its result. Flagging creates placeholder
	// results without an answer.
	Answers map[string]ledger.AnswerResult

	// Remaining is the countdown in seconds; 0 when untimed or expired.
	Remaining int

	// Status is the lifecycle state.
	Status Status

	// StartedAt and EndedAt bound the session.
	StartedAt time.Time
	EndedAt   time.Time

	// PersistedFlags are the stored bookmarks of the session's questions, so
	// a toggle flips the real state.
	PersistedFlags map[string]bool
}

// Paused reports whether the session is paused.
func (s *State) Paused() bool {
	return s.Status == StatusPaused
}

// Current returns the question on screen.
func (s *State) Current() (bank.Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return bank.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Question returns the session question with the given ID.
func (s *State) Question(id string) (bank.Question, int, bool) {
	for i, q := range s.Questions {
		if q.ID == id {
			return q, i, true
		}
	}
	return bank.Question{}, -1, false
}

// Result returns the recorded result for a question.
func (s *State) Result(id string) (ledger.AnswerResult, bool) {
	r, ok := s.Answers[id]
	return r, ok
}

// IsFlagged reports the effective bookmark state of a question.
func (s *State) IsFlagged(id string) bool {
	r := s.Answers[id]
	return r.IsFlagged(s.PersistedFlags[id])
}

// Totals counts outcomes so far.
type Totals struct {
	Total      int
	Answered   int
	Correct    int
	Wrong      int
	Skipped    int
	Unanswered int
}

// Score returns round(correct/answered*100), or 0 with nothing answered.
func (t Totals) Score() int {
	if t.Answered == 0 {
		return 0
	}
	return (t.Correct*200 + t.Answered) / (t.Answered * 2)
}

// Totals derives the running counts from the recorded answers.
func (s *State) Totals() Totals {
	t := Totals{Total: len(s.Questions)}
	for _, q := range s.Questions {
		r, ok := s.Answers[q.ID]
		switch {
		case ok && r.Answered():
			t.Answered++
			if r.IsCorrect {
				t.Correct++
			} else {
				t.Wrong++
			}
		case ok && r.Skipped:
			t.Skipped++
		default:
			t.Unanswered++
		}
	}
	return t
}

// Results returns every recorded result in presentation order.
func (s *State) Results() []ledger.AnswerResult {
	out := make([]ledger.AnswerResult, 0, len(s.Answers))
	for _, q := range s.Questions {
		if r, ok := s.Answers[q.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}
