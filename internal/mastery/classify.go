package mastery

import (
	"math"

	"github.com/abhisek/quizbank/internal/spacedrep"
)

// Accuracy band boundaries.
const (
	StrugglingBelow = 0.40
	LearningBelow   = 0.70
	ProficientBelow = 0.90

	// MasteryStreak is the consecutive non-guessed correct answers required
	// on top of the accuracy band for LevelMastered.
	MasteryStreak = 3
)

// Classify derives the mastery level from cumulative accuracy (0..1), the
// current correctness streak, the number of attempts and the confidence of
// the most recent answer. Out-of-range accuracy is clamped.
//
// A question in the top accuracy band that lacks the streak, or whose last
// answer was guessed, stays LevelProficient. See NearMastery for telling
// that case apart.
func Classify(accuracy float64, streak, timesAsked int, lastConfidence spacedrep.Confidence) Level {
	if timesAsked <= 0 {
		return LevelUnseen
	}
	accuracy = clampUnit(accuracy)
	switch {
	case accuracy < StrugglingBelow:
		return LevelStruggling
	case accuracy < LearningBelow:
		return LevelLearning
	case accuracy < ProficientBelow:
		return LevelProficient
	}
	if streak >= MasteryStreak && lastConfidence != spacedrep.ConfidenceGuessed {
		return LevelMastered
	}
	return LevelProficient
}

// NearMastery reports whether a question sits in the top accuracy band but
// was held at LevelProficient by the streak or guessed-answer rule.
func NearMastery(accuracy float64, streak, timesAsked int, lastConfidence spacedrep.Confidence) bool {
	if timesAsked <= 0 || clampUnit(accuracy) < ProficientBelow {
		return false
	}
	return Classify(accuracy, streak, timesAsked, lastConfidence) == LevelProficient
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
