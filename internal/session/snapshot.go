package session

import (
	"time"

	"github.com/abhisek/quizbank/internal/ledger"
)

// Snapshot is the persisted form of a session's progress. It carries enough
// to rebuild the runtime on resume.
type Snapshot struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	Config       Config                `json:"config"`
	QuestionIDs  []string              `json:"question_ids"`
	OptionOrders map[string][]string   `json:"option_orders,omitempty"`
	CurrentIndex int                   `json:"current_index"`
	Results      []ledger.AnswerResult `json:"results"`
	Remaining    int                   `json:"remaining"`
	Status       Status                `json:"status"`
	Totals       Totals                `json:"totals"`
	Score        int                   `json:"score"`
	StartedAt    time.Time             `json:"started_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	EndedAt      time.Time             `json:"ended_at,omitempty"`
}

// snapshot copies the state so the copy can leave the session goroutine.
func (s *State) snapshot(now time.Time) Snapshot {
	ids := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	var orders map[string][]string
	if len(s.OptionOrders) > 0 {
		orders = make(map[string][]string, len(s.OptionOrders))
		for id, o := range s.OptionOrders {
			orders[id] = append([]string(nil), o...)
		}
	}
	totals := s.Totals()
	results := s.Results()
	for i := range results {
		if f := results[i].Flagged; f != nil {
			v := *f
			results[i].Flagged = &v
		}
	}
	return Snapshot{
		ID:           s.ID,
		UserID:       s.UserID,
		Config:       s.Config,
		QuestionIDs:  ids,
		OptionOrders: orders,
		CurrentIndex: s.CurrentIndex,
		Results:      results,
		Remaining:    s.Remaining,
		Status:       s.Status,
		Totals:       totals,
		Score:        totals.Score(),
		StartedAt:    s.StartedAt,
		UpdatedAt:    now,
		EndedAt:      s.EndedAt,
	}
}
