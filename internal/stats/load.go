package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/session"
)

// RecentSessionCount is how many sessions the dashboard looks back over.
const RecentSessionCount = 20

// PoolLoader reads the question pool.
type PoolLoader interface {
	LoadQuestionPool(ctx context.Context, scope bank.Scope) ([]bank.Question, error)
}

// PerformanceLoader reads the performance ledger.
type PerformanceLoader interface {
	LoadPerformanceMap(ctx context.Context, userID string) (ledger.PerformanceMap, error)
}

// SessionLister reads session history, newest first.
type SessionLister interface {
	RecentSessions(ctx context.Context, userID string, n int) ([]session.Snapshot, error)
}

// Sources are the repositories a dashboard is computed from.
type Sources struct {
	Bank        PoolLoader
	Performance PerformanceLoader
	Sessions    SessionLister
}

// Load reads the whole pool, the user's ledger and recent sessions
// concurrently and computes the dashboard.
func Load(ctx context.Context, src Sources, userID string, now time.Time, opts Options) (Dashboard, error) {
	var (
		pool     []bank.Question
		perf     ledger.PerformanceMap
		sessions []session.Snapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pool, err = src.Bank.LoadQuestionPool(gctx, bank.Scope{})
		if err != nil {
			return fmt.Errorf("load question pool: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		perf, err = src.Performance.LoadPerformanceMap(gctx, userID)
		if err != nil {
			return fmt.Errorf("load performance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sessions, err = src.Sessions.RecentSessions(gctx, userID, RecentSessionCount)
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return Compute(pool, perf, sessions, now, opts), nil
}
