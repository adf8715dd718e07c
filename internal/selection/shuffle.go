package selection

import (
	"math/rand"

	"github.com/abhisek/quizbank/internal/bank"
)

// Shuffle returns a Fisher-Yates shuffled copy of qs. The input is not
// modified.
func Shuffle(rng *rand.Rand, qs []bank.Question) []bank.Question {
	out := make([]bank.Question, len(qs))
	copy(out, qs)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// ShuffleOptions returns a random presentation order of the question's
// option labels. Correctness is always judged by label, so the order only
// affects display.
func ShuffleOptions(rng *rand.Rand, q bank.Question) []string {
	order := make([]string, len(q.Options))
	for i, o := range q.Options {
		order[i] = o.Label
	}
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}
