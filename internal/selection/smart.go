package selection

import (
	"math/rand"

	"github.com/abhisek/quizbank/internal/bank"
)

// ImportantShare is the fraction of a smart session drawn from important
// questions, expressed in tenths.
const ImportantShare = 7

// ImportantQuota returns ceil(count*0.7) using integer arithmetic.
func ImportantQuota(count int) int {
	if count <= 0 {
		return 0
	}
	return (count*ImportantShare + 9) / 10
}

// Smart samples count questions, about 70% from important ones, and spreads
// the important picks through the result. When either pool is short the
// other makes up the difference. A non-positive count selects nothing.
func Smart(rng *rand.Rand, pool []bank.Question, count int) []bank.Question {
	if count <= 0 || len(pool) == 0 {
		return []bank.Question{}
	}

	var important, normal []bank.Question
	for _, q := range pool {
		if q.Important {
			important = append(important, q)
		} else {
			normal = append(normal, q)
		}
	}

	wantImportant := min(ImportantQuota(count), len(important))
	wantNormal := min(count-wantImportant, len(normal))
	// Top up important when normal ran short.
	wantImportant = min(count-wantNormal, len(important))

	pickedImportant := Shuffle(rng, important)[:wantImportant]
	pickedNormal := Shuffle(rng, normal)[:wantNormal]

	return interleave(rng, pickedImportant, pickedNormal)
}

// interleave merges a and b, drawing from a with probability equal to its
// share of the items still to place. Relative order within each list is kept.
func interleave(rng *rand.Rand, a, b []bank.Question) []bank.Question {
	out := make([]bank.Question, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		restA := len(a) - i
		restB := len(b) - j
		if restB == 0 || (restA > 0 && rng.Intn(restA+restB) < restA) {
			out = append(out, a[i])
			i++
			continue
		}
		out = append(out, b[j])
		j++
	}
	return out
}
