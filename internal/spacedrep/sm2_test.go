package spacedrep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuality(t *testing.T) {
	tests := []struct {
		name       string
		correct    bool
		confidence Confidence
		want       int
	}{
		{"wrong none", false, ConfidenceNone, 1},
		{"wrong sure", false, ConfidenceSure, 1},
		{"wrong guessed", false, ConfidenceGuessed, 1},
		{"correct guessed", true, ConfidenceGuessed, 2},
		{"correct unsure", true, ConfidenceUnsure, 3},
		{"correct none", true, ConfidenceNone, 4},
		{"correct sure", true, ConfidenceSure, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quality(tt.correct, tt.confidence))
		})
	}
}

func TestSM2_FirstSuccesses(t *testing.T) {
	s := SM2(5, NewSchedule())
	assert.Equal(t, 1, s.IntervalDays)
	assert.Equal(t, 1, s.Repetitions)
	assert.InDelta(t, 2.6, s.EaseFactor, 1e-9)

	s = SM2(5, s)
	assert.Equal(t, 6, s.IntervalDays)
	assert.Equal(t, 2, s.Repetitions)
	assert.InDelta(t, 2.7, s.EaseFactor, 1e-9)

	s = SM2(5, s)
	assert.Equal(t, 3, s.Repetitions)
	// round(6 * 2.8) = 17
	assert.Equal(t, 17, s.IntervalDays)
}

func TestSM2_FailureResets(t *testing.T) {
	prev := Schedule{IntervalDays: 40, EaseFactor: 2.2, Repetitions: 5}
	for q := 0; q < PassingQuality; q++ {
		s := SM2(q, prev)
		assert.Equal(t, 1, s.IntervalDays, "quality %d", q)
		assert.Equal(t, 0, s.Repetitions, "quality %d", q)
	}
}

func TestSM2_Monotonicity(t *testing.T) {
	prevs := []Schedule{
		NewSchedule(),
		{IntervalDays: 1, EaseFactor: 2.5, Repetitions: 1},
		{IntervalDays: 6, EaseFactor: 1.3, Repetitions: 2},
		{IntervalDays: 100, EaseFactor: 2.9, Repetitions: 7},
	}
	for _, prev := range prevs {
		hi := SM2(5, prev)
		lo := SM2(3, prev)
		assert.GreaterOrEqual(t, hi.IntervalDays, lo.IntervalDays, "prev %+v", prev)
	}
}

func TestSM2_EaseFloorAndIntervalBounds(t *testing.T) {
	for q := -2; q <= 7; q++ {
		for _, ef := range []float64{1.3, 1.31, 1.5, 2.5, 3.4} {
			for _, iv := range []int{0, 1, 6, 200, 365} {
				for _, reps := range []int{0, 1, 2, 9} {
					s := SM2(q, Schedule{IntervalDays: iv, EaseFactor: ef, Repetitions: reps})
					assert.GreaterOrEqual(t, s.EaseFactor, MinEaseFactor)
					assert.GreaterOrEqual(t, s.IntervalDays, MinIntervalDays)
					assert.LessOrEqual(t, s.IntervalDays, MaxIntervalDays)
				}
			}
		}
	}
}

func TestSM2_QualityClamped(t *testing.T) {
	assert.Equal(t, SM2(5, NewSchedule()), SM2(12, NewSchedule()))
	assert.Equal(t, SM2(0, NewSchedule()), SM2(-4, NewSchedule()))
}

func TestSM2_CorruptStateSelfHeals(t *testing.T) {
	s := SM2(4, Schedule{IntervalDays: -3, EaseFactor: 0.4, Repetitions: -2})
	assert.Equal(t, 1, s.Repetitions)
	assert.Equal(t, 1, s.IntervalDays)
	assert.GreaterOrEqual(t, s.EaseFactor, MinEaseFactor)

	// Repetitions past 2 with no interval still yields a valid interval.
	s = SM2(5, Schedule{IntervalDays: 0, EaseFactor: 2.5, Repetitions: 4})
	assert.Equal(t, 1, s.IntervalDays)
}

func TestSM2_IntervalCapped(t *testing.T) {
	s := SM2(5, Schedule{IntervalDays: 300, EaseFactor: 2.5, Repetitions: 6})
	assert.Equal(t, MaxIntervalDays, s.IntervalDays)
}

func TestParseConfidence(t *testing.T) {
	c, ok := ParseConfidence("sure")
	assert.True(t, ok)
	assert.Equal(t, ConfidenceSure, c)

	c, ok = ParseConfidence("maybe")
	assert.False(t, ok)
	assert.Equal(t, ConfidenceNone, c)
}
