package selection

import (
	"math/rand"
	"time"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/clock"
	"github.com/abhisek/quizbank/internal/ledger"
)

// Builder picks and orders session questions. It owns a random source and
// is not safe for concurrent use.
type Builder struct {
	rng   *rand.Rand
	clock clock.Clock
}

// NewBuilder creates a Builder. A nil rng is seeded from the current time;
// a nil clock uses the system clock.
func NewBuilder(rng *rand.Rand, clk clock.Clock) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Builder{rng: rng, clock: clk}
}

// NewSeeded creates a Builder with a reproducible random source.
func NewSeeded(seed int64, clk clock.Clock) *Builder {
	return NewBuilder(rand.New(rand.NewSource(seed)), clk)
}

// Build selects questions for mode from pool. A positive count caps the
// result for every mode; Smart needs a positive count. An unknown mode or
// an empty pool yields an empty selection.
func (b *Builder) Build(mode Mode, pool []bank.Question, perf ledger.PerformanceMap, count int) []bank.Question {
	if perf == nil {
		perf = ledger.PerformanceMap{}
	}
	switch mode {
	case ModeSmart:
		return Smart(b.rng, pool, count)
	case ModeWrong:
		return truncate(Wrong(pool, perf), count)
	case ModeDue:
		return truncate(DueToday(pool, perf, b.clock.Now()), count)
	case ModeUnseen:
		return UnseenFirst(b.rng, pool, perf, count)
	case ModeFlagged:
		return truncate(Flagged(pool, perf), count)
	case ModeRandom:
		return Random(b.rng, pool, count)
	}
	return []bank.Question{}
}

// Stale returns the stale questions in pool as of the builder's clock.
func (b *Builder) Stale(pool []bank.Question, perf ledger.PerformanceMap, thresholdDays int) []bank.Question {
	return Stale(pool, perf, b.clock.Now(), thresholdDays)
}

// Shuffle shuffles qs with the builder's random source.
func (b *Builder) Shuffle(qs []bank.Question) []bank.Question {
	return Shuffle(b.rng, qs)
}

// OptionOrders returns a shuffled option order per question ID.
func (b *Builder) OptionOrders(qs []bank.Question) map[string][]string {
	orders := make(map[string][]string, len(qs))
	for _, q := range qs {
		orders[q.ID] = ShuffleOptions(b.rng, q)
	}
	return orders
}
