package ledger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizbank/internal/clock"
	"github.com/abhisek/quizbank/internal/mastery"
)

// Repo is the persistence the ledger needs.
type Repo interface {
	// PerformanceRecords returns the stored records for the given questions.
	// Questions without a record are absent from the map.
	PerformanceRecords(ctx context.Context, userID string, questionIDs []string) (PerformanceMap, error)

	// UpsertPerformanceRecords writes all records or none.
	UpsertPerformanceRecords(ctx context.Context, userID string, records []PerformanceRecord) error
}

// Change describes how one question's record moved in a commit.
type Change struct {
	QuestionID string
	Before     mastery.Level
	After      mastery.Level
	Record     PerformanceRecord
}

// Mastered reports whether the commit promoted the question to LevelMastered.
func (c Change) Mastered() bool {
	return c.Before != mastery.LevelMastered && c.After == mastery.LevelMastered
}

// Ledger applies session results to stored performance records.
type Ledger struct {
	repo   Repo
	clock  clock.Clock
	logger *zap.Logger
}

// New creates a Ledger. A nil logger disables logging.
func New(repo Repo, clk clock.Clock, logger *zap.Logger) *Ledger {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{repo: repo, clock: clk, logger: logger}
}

// Commit scores a session's results and writes the updated records as one
// batch. Unanswered results are not scored, but a flag toggled on one is
// carried onto an existing record. Results for the same question are folded
// in order.
func (l *Ledger) Commit(ctx context.Context, userID string, results []AnswerResult) ([]Change, error) {
	ids := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if r.QuestionID == "" || seen[r.QuestionID] {
			continue
		}
		seen[r.QuestionID] = true
		ids = append(ids, r.QuestionID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	existing, err := l.repo.PerformanceRecords(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("load performance records: %w", err)
	}

	changes, records := Fold(existing, results, l.clock.Now())
	if len(records) == 0 {
		return nil, nil
	}

	if err := l.repo.UpsertPerformanceRecords(ctx, userID, records); err != nil {
		return nil, fmt.Errorf("upsert performance records: %w", err)
	}

	l.logger.Debug("ledger committed",
		zap.String("user_id", userID),
		zap.Int("results", len(results)),
		zap.Int("records", len(records)))

	return changes, nil
}

// Fold applies results to existing records without touching storage. It
// returns one Change per affected question and the records to write, both in
// first-seen order.
func Fold(existing PerformanceMap, results []AnswerResult, now time.Time) ([]Change, []PerformanceRecord) {
	current := make(PerformanceMap, len(results))
	before := make(map[string]mastery.Level, len(results))
	var order []string

	for _, r := range results {
		if r.QuestionID == "" {
			continue
		}
		rec, ok := current[r.QuestionID]
		if !ok {
			rec, ok = existing[r.QuestionID]
		}

		var next PerformanceRecord
		switch {
		case r.Answered():
			if !ok {
				rec = NewRecord(r.QuestionID)
			}
			next = ApplyResult(rec, r, now)
		case ok:
			var changed bool
			next, changed = ApplyFlag(rec, r)
			if !changed {
				continue
			}
		default:
			continue
		}

		if _, tracked := before[r.QuestionID]; !tracked {
			before[r.QuestionID] = rec.MasteryLevel
			if !ok {
				before[r.QuestionID] = mastery.LevelUnseen
			}
			order = append(order, r.QuestionID)
		}
		current[r.QuestionID] = next
	}

	changes := make([]Change, 0, len(order))
	records := make([]PerformanceRecord, 0, len(order))
	for _, id := range order {
		rec := current[id]
		changes = append(changes, Change{
			QuestionID: id,
			Before:     before[id],
			After:      rec.MasteryLevel,
			Record:     rec,
		})
		records = append(records, rec)
	}
	return changes, records
}
