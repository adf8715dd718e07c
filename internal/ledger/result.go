package ledger

import (
	"time"

	"github.com/abhisek/quizbank/internal/spacedrep"
)

// AnswerResult is the outcome of one question in one session.
// UserAnswer is empty when the question was skipped or never answered.
// Flagged is nil unless the learner toggled the bookmark during the session.
type AnswerResult struct {
	QuestionID    string               `json:"question_id"`
	QuestionText  string               `json:"question_text,omitempty"`
	UserAnswer    string               `json:"user_answer,omitempty"`
	CorrectAnswer string               `json:"correct_answer"`
	IsCorrect     bool                 `json:"is_correct"`
	Skipped       bool                 `json:"skipped"`
	TimeSpent     int                  `json:"time_spent"`
	Confidence    spacedrep.Confidence `json:"confidence,omitempty"`
	Flagged       *bool                `json:"flagged,omitempty"`
	AttemptedAt   time.Time            `json:"attempted_at"`
	OptionOrder   []string             `json:"option_order,omitempty"`
}

// Answered reports whether the learner chose an option.
func (r AnswerResult) Answered() bool {
	return r.UserAnswer != ""
}

// IsFlagged reports the session-local flag, falling back to def when the
// learner never toggled it.
func (r AnswerResult) IsFlagged(def bool) bool {
	if r.Flagged == nil {
		return def
	}
	return *r.Flagged
}
