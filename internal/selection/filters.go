package selection

import (
	"math/rand"
	"sort"
	"time"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/spacedrep"
)

// Wrong returns questions missed at least once and not yet mastered,
// weakest first. Ties keep pool order.
func Wrong(pool []bank.Question, perf ledger.PerformanceMap) []bank.Question {
	out := []bank.Question{}
	for _, q := range pool {
		rec, ok := perf[q.ID]
		if ok && rec.TimesWrong > 0 && rec.MasteryLevel < mastery.LevelMastered {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return perf[out[i].ID].Weakness() > perf[out[j].ID].Weakness()
	})
	return out
}

// DueToday returns questions whose next review falls on or before the end
// of now's day, most overdue first.
func DueToday(pool []bank.Question, perf ledger.PerformanceMap, now time.Time) []bank.Question {
	out := []bank.Question{}
	for _, q := range pool {
		if rec, ok := perf[q.ID]; ok && spacedrep.IsDueToday(rec.NextDue, now) {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return perf[out[i].ID].NextDue.Before(perf[out[j].ID].NextDue)
	})
	return out
}

// UnseenFirst puts never-asked questions first in random order, followed by
// the rest from least to most asked. A positive count truncates the result.
func UnseenFirst(rng *rand.Rand, pool []bank.Question, perf ledger.PerformanceMap, count int) []bank.Question {
	var unseen, seen []bank.Question
	for _, q := range pool {
		if rec, ok := perf[q.ID]; ok && rec.Seen() {
			seen = append(seen, q)
		} else {
			unseen = append(unseen, q)
		}
	}
	sort.SliceStable(seen, func(i, j int) bool {
		return perf[seen[i].ID].TimesAsked < perf[seen[j].ID].TimesAsked
	})

	out := append(Shuffle(rng, unseen), seen...)
	return truncate(out, count)
}

// Flagged returns bookmarked questions in pool order.
func Flagged(pool []bank.Question, perf ledger.PerformanceMap) []bank.Question {
	out := []bank.Question{}
	for _, q := range pool {
		if perf[q.ID].Flagged {
			out = append(out, q)
		}
	}
	return out
}

// Random shuffles the whole pool. A positive count truncates the result.
func Random(rng *rand.Rand, pool []bank.Question, count int) []bank.Question {
	return truncate(Shuffle(rng, pool), count)
}

// Stale returns questions last asked at least thresholdDays ago, stalest
// first. Unseen questions are never stale. It is a review signal, not a
// session mode.
func Stale(pool []bank.Question, perf ledger.PerformanceMap, now time.Time, thresholdDays int) []bank.Question {
	if thresholdDays <= 0 {
		thresholdDays = spacedrep.DefaultStaleDays
	}
	out := []bank.Question{}
	for _, q := range pool {
		if rec, ok := perf[q.ID]; ok && spacedrep.IsStale(rec.LastAsked, now, thresholdDays) {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return perf[out[i].ID].LastAsked.Before(perf[out[j].ID].LastAsked)
	})
	return out
}

// DueCount counts records due by the end of now's day.
func DueCount(perf ledger.PerformanceMap, now time.Time) int {
	n := 0
	for _, rec := range perf {
		if spacedrep.IsDueToday(rec.NextDue, now) {
			n++
		}
	}
	return n
}

func truncate(qs []bank.Question, count int) []bank.Question {
	if qs == nil {
		return []bank.Question{}
	}
	if count > 0 && len(qs) > count {
		return qs[:count]
	}
	return qs
}
