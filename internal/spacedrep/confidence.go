package spacedrep

// Confidence is the learner's self-reported certainty for an answer.
// The zero value means no confidence was given.
type Confidence string

const (
	ConfidenceNone    Confidence = ""
	ConfidenceGuessed Confidence = "guessed"
	ConfidenceUnsure  Confidence = "unsure"
	ConfidenceSure    Confidence = "sure"
)

// ParseConfidence maps user input onto a Confidence. Unknown values map to
// ConfidenceNone and ok=false.
func ParseConfidence(s string) (Confidence, bool) {
	switch Confidence(s) {
	case ConfidenceGuessed, ConfidenceUnsure, ConfidenceSure:
		return Confidence(s), true
	case ConfidenceNone:
		return ConfidenceNone, true
	}
	return ConfidenceNone, false
}

// Label returns the display label.
func (c Confidence) Label() string {
	switch c {
	case ConfidenceGuessed:
		return "Guessed"
	case ConfidenceUnsure:
		return "Unsure"
	case ConfidenceSure:
		return "Sure"
	}
	return "-"
}
