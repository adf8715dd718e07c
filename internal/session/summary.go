package session

import (
	"time"

	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/selection"
)

// Summary is the outcome of a completed session.
type Summary struct {
	SessionID string
	UserID    string
	Mode      selection.Mode
	Totals    Totals
	Score     int
	StartedAt time.Time
	EndedAt   time.Time
	Results   []ledger.AnswerResult

	// Changes lists the mastery movement per scored question. Empty when
	// the ledger write failed.
	Changes []ledger.Change
}

// Duration is the wall time from start to end.
func (s Summary) Duration() time.Duration {
	if s.EndedAt.Before(s.StartedAt) {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// NewlyMastered counts questions promoted to mastered by this session.
func (s Summary) NewlyMastered() int {
	n := 0
	for _, c := range s.Changes {
		if c.Mastered() {
			n++
		}
	}
	return n
}

// Accuracy is correct over answered, 0..1.
func (s Summary) Accuracy() float64 {
	if s.Totals.Answered == 0 {
		return 0
	}
	return float64(s.Totals.Correct) / float64(s.Totals.Answered)
}
