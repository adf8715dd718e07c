package ledger

import (
	"time"

	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/spacedrep"
)

// PerformanceRecord is the per-question learning history of one user.
// A record exists only once the question has been answered at least once;
// a missing record means the question is unseen.
type PerformanceRecord struct {
	QuestionID     string               `json:"question_id"`
	TimesAsked     int                  `json:"times_asked"`
	TimesCorrect   int                  `json:"times_correct"`
	TimesWrong     int                  `json:"times_wrong"`
	Streak         int                  `json:"streak"`
	EaseFactor     float64              `json:"ease_factor"`
	IntervalDays   int                  `json:"interval_days"`
	Repetitions    int                  `json:"repetitions"`
	MasteryLevel   mastery.Level        `json:"mastery_level"`
	Flagged        bool                 `json:"flagged"`
	LastAsked      time.Time            `json:"last_asked"`
	NextDue        time.Time            `json:"next_due"`
	LastConfidence spacedrep.Confidence `json:"last_confidence,omitempty"`
}

// PerformanceMap indexes records by question ID.
type PerformanceMap map[string]PerformanceRecord

// NewRecord returns the defaults used for a question's first scored answer.
func NewRecord(questionID string) PerformanceRecord {
	return PerformanceRecord{
		QuestionID:   questionID,
		EaseFactor:   spacedrep.DefaultEaseFactor,
		IntervalDays: spacedrep.MinIntervalDays,
	}
}

// Accuracy returns TimesCorrect/TimesAsked, or 0 for an unasked question.
func (r PerformanceRecord) Accuracy() float64 {
	if r.TimesAsked <= 0 {
		return 0
	}
	return float64(r.TimesCorrect) / float64(r.TimesAsked)
}

// Weakness ranks questions for wrong-answer drills: misses weigh three
// times as much as hits.
func (r PerformanceRecord) Weakness() int {
	return r.TimesWrong*3 - r.TimesCorrect
}

// Seen reports whether the question has been asked at least once.
func (r PerformanceRecord) Seen() bool {
	return r.TimesAsked > 0
}

// NearMastery reports whether the record is held just below LevelMastered.
func (r PerformanceRecord) NearMastery() bool {
	return mastery.NearMastery(r.Accuracy(), r.Streak, r.TimesAsked, r.LastConfidence)
}

// Schedule extracts the SM-2 state.
func (r PerformanceRecord) Schedule() spacedrep.Schedule {
	return spacedrep.Schedule{
		IntervalDays: r.IntervalDays,
		EaseFactor:   r.EaseFactor,
		Repetitions:  r.Repetitions,
	}
}

// Lookup returns the record for id and whether one exists.
func (m PerformanceMap) Lookup(id string) (PerformanceRecord, bool) {
	r, ok := m[id]
	return r, ok
}

// Level returns the stored mastery level for id, LevelUnseen when absent.
func (m PerformanceMap) Level(id string) mastery.Level {
	if r, ok := m[id]; ok {
		return r.MasteryLevel
	}
	return mastery.LevelUnseen
}

// sanitizeCounters clamps negative counters from corrupt persisted state.
func (r PerformanceRecord) sanitizeCounters() PerformanceRecord {
	r.TimesAsked = max(r.TimesAsked, 0)
	r.TimesCorrect = max(r.TimesCorrect, 0)
	r.TimesWrong = max(r.TimesWrong, 0)
	r.Streak = max(r.Streak, 0)
	return r
}
