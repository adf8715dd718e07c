package spacedrep

// Quality maps an answer outcome and confidence onto the SM-2 0-5 scale.
//
//	wrong            -> 1
//	correct, guessed -> 2 (below PassingQuality, so repetitions reset)
//	correct, unsure  -> 3
//	correct, none    -> 4
//	correct, sure    -> 5
func Quality(correct bool, confidence Confidence) int {
	if !correct {
		return 1
	}
	switch confidence {
	case ConfidenceGuessed:
		return 2
	case ConfidenceUnsure:
		return 3
	case ConfidenceSure:
		return 5
	default:
		return 4
	}
}
