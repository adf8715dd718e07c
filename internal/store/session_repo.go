package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizbank/internal/session"
)

// SessionRepo stores practice sessions and their checkpoints.
type SessionRepo struct {
	store *Store
}

var sessionSelect = []string{
	"id", "user_id", "status", "config", "question_ids", "option_orders", "results",
	"current_index", "remaining", "total", "answered", "correct", "skipped", "score",
	"started_at", "updated_at", "ended_at",
}

var openStatuses = []any{string(session.StatusInProgress), string(session.StatusPaused)}

// CreateSession inserts a new session row from its first snapshot.
func (r *SessionRepo) CreateSession(ctx context.Context, snap session.Snapshot) error {
	cfg, ids, orders, results, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	ins := builder.Insert(sessionsTable.Name).
		Columns(append([]string{"mode"}, sessionSelect...)...).
		Values(string(snap.Config.Mode), snap.ID, snap.UserID, string(snap.Status), cfg, ids, orders, results,
			snap.CurrentIndex, snap.Remaining, snap.Totals.Total, snap.Totals.Answered, snap.Totals.Correct,
			snap.Totals.Skipped, snap.Score, unix(snap.StartedAt), unix(snap.UpdatedAt), unix(snap.EndedAt))
	if _, err := exec(ctx, r.store.drv, ins); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// PersistSessionCheckpoint overwrites the progress of an open session. A
// session that already finished is left alone.
func (r *SessionRepo) PersistSessionCheckpoint(ctx context.Context, snap session.Snapshot) error {
	_, _, _, results, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	upd := builder.Update(sessionsTable.Name).
		Set("results", results).
		Set("current_index", snap.CurrentIndex).
		Set("remaining", snap.Remaining).
		Set("answered", snap.Totals.Answered).
		Set("correct", snap.Totals.Correct).
		Set("skipped", snap.Totals.Skipped).
		Set("score", snap.Score).
		Set("updated_at", unix(snap.UpdatedAt)).
		Where(entsql.And(
			entsql.EQ("id", snap.ID),
			entsql.In("status", openStatuses...),
		))
	if _, err := exec(ctx, r.store.drv, upd); err != nil {
		return fmt.Errorf("checkpoint session: %w", err)
	}
	return nil
}

// FinalizeSession records a completed session's outcome.
func (r *SessionRepo) FinalizeSession(ctx context.Context, s session.Summary) error {
	results, err := json.Marshal(nonNil(s.Results))
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	upd := builder.Update(sessionsTable.Name).
		Set("status", string(session.StatusCompleted)).
		Set("results", string(results)).
		Set("total", s.Totals.Total).
		Set("answered", s.Totals.Answered).
		Set("correct", s.Totals.Correct).
		Set("skipped", s.Totals.Skipped).
		Set("score", s.Score).
		Set("remaining", 0).
		Set("updated_at", unix(s.EndedAt)).
		Set("ended_at", unix(s.EndedAt)).
		Where(entsql.EQ("id", s.SessionID))
	n, err := exec(ctx, r.store.drv, upd)
	if err != nil {
		return fmt.Errorf("finalize session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", s.SessionID, ErrNotFound)
	}
	return nil
}

// AbandonSession marks an open session abandoned.
func (r *SessionRepo) AbandonSession(ctx context.Context, sessionID string) error {
	now := unix(r.store.stamp())
	upd := builder.Update(sessionsTable.Name).
		Set("status", string(session.StatusAbandoned)).
		Set("updated_at", now).
		Set("ended_at", now).
		Where(entsql.And(
			entsql.EQ("id", sessionID),
			entsql.In("status", openStatuses...),
		))
	if _, err := exec(ctx, r.store.drv, upd); err != nil {
		return fmt.Errorf("abandon session: %w", err)
	}
	return nil
}

// InProgressSessions returns the user's open sessions, newest first.
func (r *SessionRepo) InProgressSessions(ctx context.Context, userID string) ([]session.Snapshot, error) {
	return r.list(ctx, entsql.And(
		entsql.EQ("user_id", userID),
		entsql.In("status", openStatuses...),
	), 0)
}

// RecentSessions returns up to n of the user's sessions, newest first.
func (r *SessionRepo) RecentSessions(ctx context.Context, userID string, n int) ([]session.Snapshot, error) {
	return r.list(ctx, entsql.EQ("user_id", userID), n)
}

// Session returns one session by ID.
func (r *SessionRepo) Session(ctx context.Context, id string) (session.Snapshot, error) {
	list, err := r.list(ctx, entsql.EQ("id", id), 1)
	if err != nil {
		return session.Snapshot{}, err
	}
	if len(list) == 0 {
		return session.Snapshot{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return list[0], nil
}

func (r *SessionRepo) list(ctx context.Context, where *entsql.Predicate, limit int) ([]session.Snapshot, error) {
	sel := builder.Select(sessionSelect...).
		From(builder.Table(sessionsTable.Name)).
		Where(where).
		OrderBy(entsql.Desc("started_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}

	var out []session.Snapshot
	err := query(ctx, r.store.drv, sel, func(rows *entsql.Rows) error {
		var (
			snap                      session.Snapshot
			status, cfg, ids, results string
			orders                    entsql.NullString
			started, updated, ended   int64
		)
		if err := rows.Scan(&snap.ID, &snap.UserID, &status, &cfg, &ids, &orders, &results,
			&snap.CurrentIndex, &snap.Remaining, &snap.Totals.Total, &snap.Totals.Answered,
			&snap.Totals.Correct, &snap.Totals.Skipped, &snap.Score,
			&started, &updated, &ended); err != nil {
			return err
		}
		snap.Status = session.Status(status)
		snap.StartedAt = fromUnix(started)
		snap.UpdatedAt = fromUnix(updated)
		snap.EndedAt = fromUnix(ended)
		if err := json.Unmarshal([]byte(cfg), &snap.Config); err != nil {
			return fmt.Errorf("session %s config: %w", snap.ID, err)
		}
		if err := json.Unmarshal([]byte(ids), &snap.QuestionIDs); err != nil {
			return fmt.Errorf("session %s question ids: %w", snap.ID, err)
		}
		if err := json.Unmarshal([]byte(results), &snap.Results); err != nil {
			return fmt.Errorf("session %s results: %w", snap.ID, err)
		}
		if orders.Valid && orders.String != "" {
			if err := json.Unmarshal([]byte(orders.String), &snap.OptionOrders); err != nil {
				return fmt.Errorf("session %s option orders: %w", snap.ID, err)
			}
		}
		snap.Totals.Wrong = snap.Totals.Answered - snap.Totals.Correct
		snap.Totals.Unanswered = max(snap.Totals.Total-snap.Totals.Answered-snap.Totals.Skipped, 0)
		out = append(out, snap)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

func encodeSnapshot(snap session.Snapshot) (cfg, ids string, orders any, results string, err error) {
	b, err := json.Marshal(snap.Config)
	if err != nil {
		return "", "", nil, "", fmt.Errorf("marshal config: %w", err)
	}
	cfg = string(b)
	if b, err = json.Marshal(nonNil(snap.QuestionIDs)); err != nil {
		return "", "", nil, "", fmt.Errorf("marshal question ids: %w", err)
	}
	ids = string(b)
	if len(snap.OptionOrders) > 0 {
		if b, err = json.Marshal(snap.OptionOrders); err != nil {
			return "", "", nil, "", fmt.Errorf("marshal option orders: %w", err)
		}
		orders = string(b)
	}
	if b, err = json.Marshal(nonNil(snap.Results)); err != nil {
		return "", "", nil, "", fmt.Errorf("marshal results: %w", err)
	}
	return cfg, ids, orders, string(b), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
