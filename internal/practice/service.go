// Package practice wires selection, the session runtime and the ledger
// together around the repositories.
package practice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/clock"
	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/selection"
	"github.com/abhisek/quizbank/internal/session"
)

// DefaultResumeWindow is how long an interrupted session stays resumable.
const DefaultResumeWindow = 24 * time.Hour

// DefaultCount is the session length when none is given.
const DefaultCount = 20

// BankRepo reads questions.
type BankRepo interface {
	LoadQuestionPool(ctx context.Context, scope bank.Scope) ([]bank.Question, error)
	QuestionsByID(ctx context.Context, ids []string) ([]bank.Question, error)
}

// PerformanceRepo reads the performance ledger.
type PerformanceRepo interface {
	LoadPerformanceMap(ctx context.Context, userID string) (ledger.PerformanceMap, error)
}

// SessionRepo stores session lifecycle.
type SessionRepo interface {
	session.Store
	CreateSession(ctx context.Context, snap session.Snapshot) error
	InProgressSessions(ctx context.Context, userID string) ([]session.Snapshot, error)
}

// Options tune the service.
type Options struct {
	DefaultCount    int
	ResumeWindow    time.Duration
	CheckpointEvery int
}

// Service starts, resumes and discards practice sessions.
type Service struct {
	bank     BankRepo
	perf     PerformanceRepo
	sessions SessionRepo
	ledger   session.Committer
	builder  *selection.Builder
	clock    clock.Clock
	logger   *zap.Logger
	opts     Options
}

// NewService creates a Service. A nil builder gets a time-seeded one.
func NewService(bankRepo BankRepo, perf PerformanceRepo, sessions SessionRepo, committer session.Committer,
	builder *selection.Builder, clk clock.Clock, logger *zap.Logger, opts Options) *Service {
	if clk == nil {
		clk = clock.Real()
	}
	if builder == nil {
		builder = selection.NewBuilder(nil, clk)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = DefaultCount
	}
	if opts.ResumeWindow <= 0 {
		opts.ResumeWindow = DefaultResumeWindow
	}
	return &Service{
		bank:     bankRepo,
		perf:     perf,
		sessions: sessions,
		ledger:   committer,
		builder:  builder,
		clock:    clk,
		logger:   logger,
		opts:     opts,
	}
}

// Selection is the ordered question set chosen for a new session.
type Selection struct {
	Config       session.Config
	Questions    []bank.Question
	OptionOrders map[string][]string
	Flags        map[string]bool
	PoolSize     int
}

// Empty reports whether there is nothing to practice.
func (s Selection) Empty() bool {
	return len(s.Questions) == 0
}

// Prepare loads the pool and ledger concurrently and picks the questions.
// An empty Selection is a normal outcome.
func (s *Service) Prepare(ctx context.Context, userID string, cfg session.Config) (Selection, error) {
	if cfg.Count <= 0 {
		cfg.Count = s.opts.DefaultCount
	}
	if cfg.TimerType == "" {
		cfg.TimerType = session.TimerNone
	}

	var (
		pool []bank.Question
		perf ledger.PerformanceMap
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pool, err = s.bank.LoadQuestionPool(gctx, cfg.Scope)
		if err != nil {
			return fmt.Errorf("load question pool: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		perf, err = s.perf.LoadPerformanceMap(gctx, userID)
		if err != nil {
			return fmt.Errorf("load performance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Selection{}, err
	}

	qs := s.builder.Build(cfg.Mode, pool, perf, cfg.Count)
	if cfg.ShuffleQuestions && !cfg.Mode.Ordered() {
		qs = s.builder.Shuffle(qs)
	}

	sel := Selection{
		Config:    cfg,
		Questions: qs,
		Flags:     flagsFor(qs, perf),
		PoolSize:  len(pool),
	}
	if cfg.ShuffleOptions {
		sel.OptionOrders = s.builder.OptionOrders(qs)
	}

	s.logger.Debug("selection prepared",
		zap.String("mode", string(cfg.Mode)),
		zap.Int("pool", len(pool)),
		zap.Int("selected", len(qs)))
	return sel, nil
}

// Begin starts a runtime for sel and records the new session.
func (s *Service) Begin(ctx context.Context, userID string, sel Selection) (*session.Runtime, error) {
	rt := s.newRuntime()
	err := rt.Init(session.Params{
		ID:           uuid.NewString(),
		UserID:       userID,
		Questions:    sel.Questions,
		Config:       sel.Config,
		OptionOrders: sel.OptionOrders,
		Flags:        sel.Flags,
	})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.CreateSession(ctx, rt.Snapshot()); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("session started",
		zap.String("session_id", rt.State().ID),
		zap.String("mode", string(sel.Config.Mode)),
		zap.Int("questions", len(sel.Questions)))
	return rt, nil
}

// ResumeCandidate returns the newest in-progress session started within the
// resume window, or nil. Older in-progress sessions are abandoned.
func (s *Service) ResumeCandidate(ctx context.Context, userID string) (*session.Snapshot, error) {
	snaps, err := s.sessions.InProgressSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list in-progress sessions: %w", err)
	}
	now := s.clock.Now()
	var candidate *session.Snapshot
	for i := range snaps {
		snap := snaps[i]
		if candidate == nil && now.Sub(snap.StartedAt) < s.opts.ResumeWindow {
			candidate = &snap
			continue
		}
		if err := s.sessions.AbandonSession(ctx, snap.ID); err != nil {
			return nil, fmt.Errorf("abandon stale session %s: %w", snap.ID, err)
		}
		s.logger.Info("abandoned stale session", zap.String("session_id", snap.ID))
	}
	return candidate, nil
}

// Resume rebuilds a runtime from a checkpoint. Questions deleted since the
// checkpoint are left out.
func (s *Service) Resume(ctx context.Context, userID string, snap session.Snapshot) (*session.Runtime, error) {
	var (
		found []bank.Question
		perf  ledger.PerformanceMap
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		found, err = s.bank.QuestionsByID(gctx, snap.QuestionIDs)
		return err
	})
	g.Go(func() error {
		var err error
		perf, err = s.perf.LoadPerformanceMap(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load session %s: %w", snap.ID, err)
	}

	byID := make(map[string]bank.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	qs := make([]bank.Question, 0, len(snap.QuestionIDs))
	for _, id := range snap.QuestionIDs {
		if q, ok := byID[id]; ok {
			qs = append(qs, q)
		}
	}

	rt := s.newRuntime()
	if err := rt.Restore(snap, qs, flagsFor(qs, perf)); err != nil {
		return nil, err
	}
	s.logger.Info("session resumed", zap.String("session_id", snap.ID))
	return rt, nil
}

// Discard abandons an interrupted session without scoring it.
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	if err := s.sessions.AbandonSession(ctx, sessionID); err != nil {
		return fmt.Errorf("abandon session: %w", err)
	}
	return nil
}

func (s *Service) newRuntime() *session.Runtime {
	return session.NewRuntime(session.Deps{
		Ledger:          s.ledger,
		Store:           s.sessions,
		Clock:           s.clock,
		Logger:          s.logger,
		CheckpointEvery: s.opts.CheckpointEvery,
	})
}

func flagsFor(qs []bank.Question, perf ledger.PerformanceMap) map[string]bool {
	flags := make(map[string]bool)
	for _, q := range qs {
		if perf[q.ID].Flagged {
			flags[q.ID] = true
		}
	}
	return flags
}
