package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/clock"
	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/spacedrep"
)

// Committer scores a finished session's results.
type Committer interface {
	Commit(ctx context.Context, userID string, results []ledger.AnswerResult) ([]ledger.Change, error)
}

// Store persists session progress and outcome.
type Store interface {
	PersistSessionCheckpoint(ctx context.Context, snap Snapshot) error
	FinalizeSession(ctx context.Context, summary Summary) error
	AbandonSession(ctx context.Context, sessionID string) error
}

// Deps are the runtime's collaborators.
type Deps struct {
	Ledger Committer
	Store  Store
	Clock  clock.Clock
	Logger *zap.Logger

	// CheckpointEvery overrides DefaultCheckpointEvery; negative disables
	// checkpoints.
	CheckpointEvery int
}

// Params start a new session.
type Params struct {
	ID           string
	UserID       string
	Questions    []bank.Question
	Config       Config
	OptionOrders map[string][]string
	Flags        map[string]bool
}

// TickResult reports what a timer tick did.
type TickResult struct {
	Remaining int

	// QuestionExpired is set when the per-question countdown hit zero.
	QuestionExpired bool

	// AutoSkipped is set when the expired question had no answer yet.
	AutoSkipped bool

	// Advanced is set when expiry moved to the next question.
	Advanced bool

	// SessionExpired is set when the whole-session countdown hit zero.
	// Ending the session is up to the caller.
	SessionExpired bool
}

// Runtime drives one session through its lifecycle. All methods must be
// called from a single goroutine.
type Runtime struct {
	state       *State
	ledger      Committer
	store       Store
	clock       clock.Clock
	logger      *zap.Logger
	every       int
	checkpoints *CheckpointWriter
	shownAt     time.Time
}

// NewRuntime creates a runtime in the configuring state.
func NewRuntime(d Deps) *Runtime {
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	every := d.CheckpointEvery
	if every == 0 {
		every = DefaultCheckpointEvery
	}
	return &Runtime{
		state:  &State{Status: StatusConfiguring},
		ledger: d.Ledger,
		store:  d.Store,
		clock:  d.Clock,
		logger: d.Logger,
		every:  every,
	}
}

// State exposes the session state for rendering. Callers must not mutate it.
func (r *Runtime) State() *State {
	return r.state
}

// Init moves a configuring session to in_progress on the first question.
func (r *Runtime) Init(p Params) error {
	if r.state.Status != StatusConfiguring {
		return fmt.Errorf("init: %w", ErrNotInProgress)
	}
	now := r.clock.Now()
	r.state = &State{
		ID:             p.ID,
		UserID:         p.UserID,
		Config:         p.Config,
		Questions:      p.Questions,
		OptionOrders:   p.OptionOrders,
		Answers:        make(map[string]ledger.AnswerResult),
		Remaining:      p.Config.InitialRemaining(),
		Status:         StatusInProgress,
		StartedAt:      now,
		PersistedFlags: p.Flags,
	}
	if r.state.PersistedFlags == nil {
		r.state.PersistedFlags = make(map[string]bool)
	}
	r.start()
	return nil
}

// Restore rebuilds a configuring runtime from a checkpoint. Questions must
// be the snapshot's questions in order; results for questions no longer in
// the bank are dropped.
func (r *Runtime) Restore(snap Snapshot, questions []bank.Question, flags map[string]bool) error {
	if r.state.Status != StatusConfiguring {
		return fmt.Errorf("restore: %w", ErrNotInProgress)
	}
	if snap.Status.Finished() {
		return fmt.Errorf("restore: %w", ErrAlreadyFinished)
	}
	answers := make(map[string]ledger.AnswerResult, len(snap.Results))
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	for _, res := range snap.Results {
		if known[res.QuestionID] {
			answers[res.QuestionID] = res
		}
	}
	if flags == nil {
		flags = make(map[string]bool)
	}
	idx := snap.CurrentIndex
	if idx < 0 || idx >= len(questions) {
		idx = 0
	}
	r.state = &State{
		ID:             snap.ID,
		UserID:         snap.UserID,
		Config:         snap.Config,
		Questions:      questions,
		OptionOrders:   snap.OptionOrders,
		CurrentIndex:   idx,
		Answers:        answers,
		Remaining:      snap.Remaining,
		Status:         StatusInProgress,
		StartedAt:      snap.StartedAt,
		PersistedFlags: flags,
	}
	r.start()
	return nil
}

func (r *Runtime) start() {
	r.shownAt = r.clock.Now()
	if r.store != nil && r.every > 0 {
		r.checkpoints = NewCheckpointWriter(r.store, r.logger)
	}
}

// active checks that the session accepts answers.
func (r *Runtime) active() error {
	switch r.state.Status {
	case StatusInProgress:
		return nil
	case StatusPaused:
		return ErrPaused
	case StatusCompleted, StatusAbandoned:
		return ErrAlreadyFinished
	}
	return ErrNotInProgress
}

// open checks that the session has started and not finished.
func (r *Runtime) open() error {
	if err := r.active(); err != nil && !errors.Is(err, ErrPaused) {
		return err
	}
	return nil
}

// Answer records the learner's choice for a question. It does not move to
// the next question.
func (r *Runtime) Answer(questionID, label string) (ledger.AnswerResult, error) {
	if err := r.active(); err != nil {
		return ledger.AnswerResult{}, err
	}
	q, idx, ok := r.state.Question(questionID)
	if !ok {
		return ledger.AnswerResult{}, ErrUnknownQuestion
	}
	prev, had := r.state.Answers[questionID]
	if had && prev.Answered() {
		return prev, ErrAlreadyAnswered
	}
	if !q.HasOption(label) {
		return ledger.AnswerResult{}, ErrInvalidOption
	}

	now := r.clock.Now()
	res := r.newResult(q, prev)
	res.UserAnswer = label
	res.IsCorrect = label == q.CorrectOption
	res.Skipped = false
	res.AttemptedAt = now
	if idx == r.state.CurrentIndex {
		res.TimeSpent = int(now.Sub(r.shownAt) / time.Second)
	}
	r.state.Answers[questionID] = res

	if answered := r.state.Totals().Answered; r.every > 0 && answered%r.every == 0 {
		r.checkpoint(now)
	}
	return res, nil
}

// Skip records a question as skipped. A skipped question may still be
// answered later in the session.
func (r *Runtime) Skip(questionID string) error {
	if err := r.active(); err != nil {
		return err
	}
	q, _, ok := r.state.Question(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	prev, had := r.state.Answers[questionID]
	if had && prev.Answered() {
		return ErrAlreadyAnswered
	}
	r.state.Answers[questionID] = r.skipped(q, prev, r.clock.Now())
	return nil
}

func (r *Runtime) skipped(q bank.Question, prev ledger.AnswerResult, now time.Time) ledger.AnswerResult {
	res := r.newResult(q, prev)
	res.UserAnswer = ""
	res.IsCorrect = false
	res.Skipped = true
	res.AttemptedAt = now
	return res
}

// newResult starts a result for q, keeping the flag and confidence already
// attached to prev.
func (r *Runtime) newResult(q bank.Question, prev ledger.AnswerResult) ledger.AnswerResult {
	return ledger.AnswerResult{
		QuestionID:    q.ID,
		QuestionText:  q.Text,
		CorrectAnswer: q.CorrectOption,
		Confidence:    prev.Confidence,
		Flagged:       prev.Flagged,
		OptionOrder:   r.state.OptionOrders[q.ID],
	}
}

// Flag toggles the bookmark on a question. Flagging never scores.
func (r *Runtime) Flag(questionID string) (bool, error) {
	if err := r.open(); err != nil {
		return false, err
	}
	q, _, ok := r.state.Question(questionID)
	if !ok {
		return false, ErrUnknownQuestion
	}
	flagged := !r.state.IsFlagged(questionID)
	res, had := r.state.Answers[questionID]
	if !had {
		res = r.newResult(q, ledger.AnswerResult{})
	}
	res.Flagged = &flagged
	r.state.Answers[questionID] = res
	return flagged, nil
}

// SetConfidence attaches a confidence rating to an answered question.
func (r *Runtime) SetConfidence(questionID string, c spacedrep.Confidence) error {
	if err := r.open(); err != nil {
		return err
	}
	if _, _, ok := r.state.Question(questionID); !ok {
		return ErrUnknownQuestion
	}
	res, had := r.state.Answers[questionID]
	if !had || !res.Answered() {
		return ErrNotAnswered
	}
	res.Confidence = c
	r.state.Answers[questionID] = res
	return nil
}

// Next moves to the following question. It reports false on the last one.
func (r *Runtime) Next() (bool, error) {
	if err := r.open(); err != nil {
		return false, err
	}
	if r.state.CurrentIndex >= len(r.state.Questions)-1 {
		return false, nil
	}
	r.moveTo(r.state.CurrentIndex + 1)
	return true, nil
}

// Prev moves to the preceding question. It reports false on the first one.
func (r *Runtime) Prev() (bool, error) {
	if err := r.open(); err != nil {
		return false, err
	}
	if r.state.CurrentIndex <= 0 {
		return false, nil
	}
	r.moveTo(r.state.CurrentIndex - 1)
	return true, nil
}

// GoTo jumps to question i. The current question need not be answered.
func (r *Runtime) GoTo(i int) error {
	if err := r.open(); err != nil {
		return err
	}
	if i < 0 || i >= len(r.state.Questions) {
		return ErrOutOfRange
	}
	if i != r.state.CurrentIndex {
		r.moveTo(i)
	}
	return nil
}

func (r *Runtime) moveTo(i int) {
	r.state.CurrentIndex = i
	r.shownAt = r.clock.Now()
	if r.state.Config.TimerType == TimerPerQuestion {
		r.state.Remaining = r.state.Config.InitialRemaining()
	}
}

// Tick advances the countdown by one second. It does nothing unless the
// session is running with a timer.
func (r *Runtime) Tick() TickResult {
	st := r.state
	if st.Status != StatusInProgress || !st.Config.Timed() || st.Remaining <= 0 {
		return TickResult{Remaining: st.Remaining}
	}
	st.Remaining--
	if st.Remaining > 0 {
		return TickResult{Remaining: st.Remaining}
	}

	if st.Config.TimerType == TimerFullSession {
		return TickResult{SessionExpired: true}
	}

	out := TickResult{QuestionExpired: true}
	if q, ok := st.Current(); ok {
		if prev, had := st.Answers[q.ID]; !had || !prev.Answered() {
			st.Answers[q.ID] = r.skipped(q, prev, r.clock.Now())
			out.AutoSkipped = true
		}
	}
	if st.CurrentIndex < len(st.Questions)-1 {
		r.moveTo(st.CurrentIndex + 1)
		out.Advanced = true
	}
	out.Remaining = st.Remaining
	return out
}

// Pause stops the clock.
func (r *Runtime) Pause() error {
	if err := r.active(); err != nil {
		return err
	}
	r.state.Status = StatusPaused
	return nil
}

// Resume restarts a paused clock. Resuming a running session is a no-op.
func (r *Runtime) Resume() error {
	switch r.state.Status {
	case StatusPaused:
		r.state.Status = StatusInProgress
		return nil
	case StatusInProgress:
		return nil
	}
	return r.active()
}

// Snapshot captures the current progress.
func (r *Runtime) Snapshot() Snapshot {
	return r.state.snapshot(r.clock.Now())
}

func (r *Runtime) checkpoint(now time.Time) {
	if r.checkpoints == nil {
		return
	}
	r.checkpoints.Enqueue(r.state.snapshot(now))
}

func (r *Runtime) stopCheckpoints() {
	if r.checkpoints != nil {
		r.checkpoints.Close()
		r.checkpoints = nil
	}
}

// End completes the session: unanswered questions are skipped, results are
// scored into the ledger and the outcome is stored. The session is completed
// even when either write fails; the failures are returned joined.
func (r *Runtime) End(ctx context.Context) (Summary, error) {
	if err := r.open(); err != nil {
		return Summary{}, err
	}
	st := r.state
	now := r.clock.Now()
	for _, q := range st.Questions {
		prev, had := st.Answers[q.ID]
		if !had || (!prev.Answered() && !prev.Skipped) {
			st.Answers[q.ID] = r.skipped(q, prev, now)
		}
	}
	st.Status = StatusCompleted
	st.EndedAt = now
	st.Remaining = 0
	r.stopCheckpoints()

	totals := st.Totals()
	summary := Summary{
		SessionID: st.ID,
		UserID:    st.UserID,
		Mode:      st.Config.Mode,
		Totals:    totals,
		Score:     totals.Score(),
		StartedAt: st.StartedAt,
		EndedAt:   now,
		Results:   st.Results(),
	}

	var ledgerErr, finalizeErr error
	if r.ledger != nil {
		changes, err := r.ledger.Commit(ctx, st.UserID, summary.Results)
		if err != nil {
			ledgerErr = fmt.Errorf("commit results: %w", err)
			r.logger.Error("ledger commit failed", zap.String("session_id", st.ID), zap.Error(err))
		}
		summary.Changes = changes
	}
	if r.store != nil {
		if err := r.store.FinalizeSession(ctx, summary); err != nil {
			finalizeErr = fmt.Errorf("finalize session: %w", err)
			r.logger.Error("finalize session failed", zap.String("session_id", st.ID), zap.Error(err))
		}
	}

	r.logger.Info("session completed",
		zap.String("session_id", st.ID),
		zap.Int("answered", totals.Answered),
		zap.Int("correct", totals.Correct),
		zap.Int("score", summary.Score))

	return summary, errors.Join(ledgerErr, finalizeErr)
}

// Abandon ends the session without scoring. Checkpoints already written
// stay; the ledger is never touched.
func (r *Runtime) Abandon(ctx context.Context) error {
	if err := r.open(); err != nil {
		return err
	}
	r.state.Status = StatusAbandoned
	r.state.EndedAt = r.clock.Now()
	r.stopCheckpoints()

	if r.store == nil {
		return nil
	}
	if err := r.store.AbandonSession(ctx, r.state.ID); err != nil {
		r.logger.Error("abandon session failed", zap.String("session_id", r.state.ID), zap.Error(err))
		return fmt.Errorf("abandon session: %w", err)
	}
	return nil
}
