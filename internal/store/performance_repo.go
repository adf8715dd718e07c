package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/spacedrep"
)

// PerformanceRepo stores the per-user performance ledger.
type PerformanceRepo struct {
	store *Store
}

var performanceSelect = []string{
	"question_id", "times_asked", "times_correct", "times_wrong", "streak",
	"ease_factor", "interval_days", "repetitions", "mastery_level", "flagged",
	"last_asked", "next_due", "last_confidence",
}

var performanceInsert = append(append([]string{"user_id"}, performanceSelect...), "updated_at")

// LoadPerformanceMap returns every record of the user.
func (r *PerformanceRepo) LoadPerformanceMap(ctx context.Context, userID string) (ledger.PerformanceMap, error) {
	return loadPerformance(ctx, r.store.drv, entsql.EQ("user_id", userID))
}

// PerformanceRecords returns the user's records for the given questions.
func (r *PerformanceRepo) PerformanceRecords(ctx context.Context, userID string, questionIDs []string) (ledger.PerformanceMap, error) {
	out := make(ledger.PerformanceMap, len(questionIDs))
	for _, chunk := range chunks(questionIDs, 500) {
		m, err := loadPerformance(ctx, r.store.drv, entsql.And(
			entsql.EQ("user_id", userID),
			entsql.In("question_id", anys(chunk)...),
		))
		if err != nil {
			return nil, err
		}
		for id, rec := range m {
			out[id] = rec
		}
	}
	return out, nil
}

func loadPerformance(ctx context.Context, q querier, where *entsql.Predicate) (ledger.PerformanceMap, error) {
	sel := builder.Select(performanceSelect...).
		From(builder.Table(performanceTable.Name)).
		Where(where)
	out := make(ledger.PerformanceMap)
	err := query(ctx, q, sel, func(rows *entsql.Rows) error {
		var (
			rec            ledger.PerformanceRecord
			level          int
			lastAsked, due int64
			confidence     string
		)
		if err := rows.Scan(&rec.QuestionID, &rec.TimesAsked, &rec.TimesCorrect, &rec.TimesWrong, &rec.Streak,
			&rec.EaseFactor, &rec.IntervalDays, &rec.Repetitions, &level, &rec.Flagged,
			&lastAsked, &due, &confidence); err != nil {
			return err
		}
		rec.MasteryLevel = mastery.Level(level)
		rec.LastAsked = fromUnix(lastAsked)
		rec.NextDue = fromUnix(due)
		rec.LastConfidence, _ = spacedrep.ParseConfidence(confidence)
		out[rec.QuestionID] = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load performance: %w", err)
	}
	return out, nil
}

// UpsertPerformanceRecords writes records in one transaction: all land or
// none do.
func (r *PerformanceRepo) UpsertPerformanceRecords(ctx context.Context, userID string, records []ledger.PerformanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	updated := unix(r.store.stamp())
	return r.store.withTx(ctx, func(tx dialect.Tx) error {
		for start := 0; start < len(records); start += 200 {
			end := min(start+200, len(records))
			ins := builder.Insert(performanceTable.Name).
				Columns(performanceInsert...)
			for _, rec := range records[start:end] {
				ins.Values(userID, rec.QuestionID, rec.TimesAsked, rec.TimesCorrect, rec.TimesWrong, rec.Streak,
					rec.EaseFactor, rec.IntervalDays, rec.Repetitions, int(rec.MasteryLevel), rec.Flagged,
					unix(rec.LastAsked), unix(rec.NextDue), string(rec.LastConfidence), updated)
			}
			ins.OnConflict(
				entsql.ConflictColumns("user_id", "question_id"),
				entsql.ResolveWithNewValues(),
			)
			if _, err := exec(ctx, tx, ins); err != nil {
				return fmt.Errorf("upsert performance: %w", err)
			}
		}
		return nil
	})
}

// SetFlagged sets the bookmark on an existing record.
func (r *PerformanceRepo) SetFlagged(ctx context.Context, userID, questionID string, flagged bool) error {
	upd := builder.Update(performanceTable.Name).
		Set("flagged", flagged).
		Set("updated_at", unix(r.store.stamp())).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("question_id", questionID)))
	n, err := exec(ctx, r.store.drv, upd)
	if err != nil {
		return fmt.Errorf("set flagged: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("performance record %s: %w", questionID, ErrNotFound)
	}
	return nil
}

// ToggleFlag flips the bookmark on an existing record and returns the new
// state.
func (r *PerformanceRepo) ToggleFlag(ctx context.Context, userID, questionID string) (bool, error) {
	var flagged bool
	err := r.store.withTx(ctx, func(tx dialect.Tx) error {
		m, err := loadPerformance(ctx, tx, entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("question_id", questionID),
		))
		if err != nil {
			return err
		}
		rec, ok := m[questionID]
		if !ok {
			return fmt.Errorf("performance record %s: %w", questionID, ErrNotFound)
		}
		flagged = !rec.Flagged
		upd := builder.Update(performanceTable.Name).
			Set("flagged", flagged).
			Set("updated_at", unix(r.store.stamp())).
			Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("question_id", questionID)))
		_, err = exec(ctx, tx, upd)
		return err
	})
	return flagged, err
}

// Reset deletes the user's whole ledger and returns how many records went.
func (r *PerformanceRepo) Reset(ctx context.Context, userID string) (int64, error) {
	n, err := exec(ctx, r.store.drv, builder.Delete(performanceTable.Name).Where(entsql.EQ("user_id", userID)))
	if err != nil {
		return 0, fmt.Errorf("reset performance: %w", err)
	}
	return n, nil
}
