package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/quizbank/internal/worker"
)

// DefaultCheckpointEvery is how many answered questions pass between
// progress snapshots.
const DefaultCheckpointEvery = 10

const checkpointQueue = 4

// CheckpointWriter persists snapshots in the background. Writes are best
// effort: a full queue drops the snapshot and failures are only logged.
type CheckpointWriter struct {
	store  Store
	pool   *worker.Pool[error]
	logger *zap.Logger
	done   chan struct{}
}

// NewCheckpointWriter starts a single-worker writer so snapshots land in
// order.
func NewCheckpointWriter(store Store, logger *zap.Logger) *CheckpointWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &CheckpointWriter{
		store:  store,
		pool:   worker.NewPool[error](context.Background(), 1, checkpointQueue),
		logger: logger,
		done:   make(chan struct{}),
	}
	go w.drain()
	return w
}

func (w *CheckpointWriter) drain() {
	defer close(w.done)
	for r := range w.pool.Results() {
		if r.Output != nil {
			w.logger.Warn("session checkpoint failed",
				zap.String("session_id", r.JobID),
				zap.Error(r.Output))
		}
	}
}

// Enqueue schedules snap for writing.
func (w *CheckpointWriter) Enqueue(snap Snapshot) {
	ok := w.pool.TrySubmit(snap.ID, func(ctx context.Context) error {
		return w.store.PersistSessionCheckpoint(ctx, snap)
	})
	if !ok {
		w.logger.Warn("session checkpoint dropped", zap.String("session_id", snap.ID))
	}
}

// Close waits for queued snapshots to be written.
func (w *CheckpointWriter) Close() {
	w.pool.Close()
	<-w.done
}
