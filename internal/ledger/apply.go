package ledger

import (
	"time"

	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/spacedrep"
)

// ApplyResult folds one answer into a question's record. Pass NewRecord for
// a question without history. A result without an answer is not scored and
// returns existing unchanged.
func ApplyResult(existing PerformanceRecord, result AnswerResult, now time.Time) PerformanceRecord {
	if !result.Answered() {
		return existing
	}

	rec := existing.sanitizeCounters()
	rec.QuestionID = result.QuestionID

	rec.TimesAsked++
	if result.IsCorrect {
		rec.TimesCorrect++
	} else {
		rec.TimesWrong++
	}

	switch {
	case !result.IsCorrect:
		rec.Streak = 0
	case result.Confidence != spacedrep.ConfidenceGuessed:
		rec.Streak++
	}

	quality := spacedrep.Quality(result.IsCorrect, result.Confidence)
	sched := spacedrep.SM2(quality, existing.Schedule())
	rec.IntervalDays = sched.IntervalDays
	rec.EaseFactor = sched.EaseFactor
	rec.Repetitions = sched.Repetitions

	rec.LastAsked = now
	rec.NextDue = spacedrep.NextDue(now, sched.IntervalDays)
	rec.LastConfidence = result.Confidence
	rec.MasteryLevel = mastery.Classify(rec.Accuracy(), rec.Streak, rec.TimesAsked, result.Confidence)
	rec.Flagged = result.IsFlagged(existing.Flagged)

	return rec
}

// ApplyFlag carries a session flag toggle onto an existing record without
// scoring. It reports whether the record changed.
func ApplyFlag(existing PerformanceRecord, result AnswerResult) (PerformanceRecord, bool) {
	if result.Flagged == nil || *result.Flagged == existing.Flagged {
		return existing, false
	}
	existing.Flagged = *result.Flagged
	return existing, true
}
