package spacedrep

import (
	"time"

	"github.com/abhisek/quizbank/internal/clock"
)

// DefaultStaleDays is how long a question may go unreviewed before it is stale.
const DefaultStaleDays = 30

const day = 24 * time.Hour

// NextDue anchors an interval to the start of the day the review happened.
func NextDue(reviewedAt time.Time, intervalDays int) time.Time {
	return clock.StartOfDay(reviewedAt).AddDate(0, 0, intervalDays)
}

// IsDueToday reports whether nextDue falls on or before the end of now's day.
// A zero nextDue is never due.
func IsDueToday(nextDue, now time.Time) bool {
	if nextDue.IsZero() {
		return false
	}
	return !nextDue.After(clock.EndOfDay(now))
}

// IsStale reports whether lastAsked is at least thresholdDays before now.
// A question never asked is unseen, not stale.
func IsStale(lastAsked, now time.Time, thresholdDays int) bool {
	if lastAsked.IsZero() {
		return false
	}
	return now.Sub(lastAsked) >= time.Duration(thresholdDays)*day
}

// DaysSince returns whole days elapsed since t, or -1 when t is zero.
func DaysSince(t, now time.Time) int {
	if t.IsZero() {
		return -1
	}
	return int(now.Sub(t) / day)
}
