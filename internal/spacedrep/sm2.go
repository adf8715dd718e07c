package spacedrep

import "math"

const (
	// DefaultEaseFactor is the ease factor of a question never reviewed.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the SM-2 ease factor floor.
	MinEaseFactor = 1.3

	// MinIntervalDays and MaxIntervalDays bound every scheduled interval.
	MinIntervalDays = 1
	MaxIntervalDays = 365

	// PassingQuality is the lowest quality that counts as a successful review.
	PassingQuality = 3

	// SecondIntervalDays is the fixed interval after the second success.
	SecondIntervalDays = 6
)

// Schedule is the SM-2 scheduling state carried between reviews.
type Schedule struct {
	IntervalDays int
	EaseFactor   float64
	Repetitions  int
}

// NewSchedule returns the scheduling state of an unseen question.
func NewSchedule() Schedule {
	return Schedule{EaseFactor: DefaultEaseFactor}
}

// Sanitize clamps persisted scheduling state into its valid domain so a
// corrupt record schedules like a fresh one instead of failing.
func (s Schedule) Sanitize() Schedule {
	switch {
	case s.EaseFactor == 0, math.IsNaN(s.EaseFactor), math.IsInf(s.EaseFactor, 0):
		s.EaseFactor = DefaultEaseFactor
	case s.EaseFactor < MinEaseFactor:
		s.EaseFactor = MinEaseFactor
	}
	if s.IntervalDays < 0 {
		s.IntervalDays = 0
	}
	if s.IntervalDays > MaxIntervalDays {
		s.IntervalDays = MaxIntervalDays
	}
	if s.Repetitions < 0 {
		s.Repetitions = 0
	}
	return s
}

// SM2 computes the schedule following a review of the given quality.
// Quality is clamped to [0,5]. On failure the interval drops to one day and
// repetitions reset; on success repetitions advance by exactly one.
func SM2(quality int, prev Schedule) Schedule {
	prev = prev.Sanitize()
	quality = clamp(quality, 0, 5)
	q := float64(quality)

	ef := prev.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	ef = math.Max(MinEaseFactor, ef)

	var interval, reps int
	if quality < PassingQuality {
		interval = MinIntervalDays
		reps = 0
	} else {
		reps = prev.Repetitions + 1
		switch reps {
		case 1:
			interval = MinIntervalDays
		case 2:
			interval = SecondIntervalDays
		default:
			interval = int(math.Round(float64(prev.IntervalDays) * ef))
		}
	}

	return Schedule{
		IntervalDays: clamp(interval, MinIntervalDays, MaxIntervalDays),
		EaseFactor:   math.Round(ef*100) / 100,
		Repetitions:  reps,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
