package mastery

// Level is the discrete learned status of a single question.
type Level int

const (
	LevelUnseen Level = iota
	LevelStruggling
	LevelLearning
	LevelProficient
	LevelMastered
)

// Levels lists every level in ascending order.
var Levels = []Level{LevelUnseen, LevelStruggling, LevelLearning, LevelProficient, LevelMastered}

func (l Level) String() string {
	switch l {
	case LevelUnseen:
		return "Unseen"
	case LevelStruggling:
		return "Struggling"
	case LevelLearning:
		return "Learning"
	case LevelProficient:
		return "Proficient"
	case LevelMastered:
		return "Mastered"
	}
	return "Unknown"
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelUnseen && l <= LevelMastered
}
