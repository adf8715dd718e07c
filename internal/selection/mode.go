package selection

import (
	"fmt"
	"strings"
)

// Mode is a practice-session selection strategy.
type Mode string

const (
	ModeSmart   Mode = "smart"
	ModeWrong   Mode = "wrong"
	ModeDue     Mode = "due"
	ModeUnseen  Mode = "unseen"
	ModeFlagged Mode = "flagged"
	ModeRandom  Mode = "random"
)

// Modes lists every selectable mode in menu order.
var Modes = []Mode{ModeSmart, ModeWrong, ModeDue, ModeUnseen, ModeFlagged, ModeRandom}

// ParseMode converts a user-supplied name into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Label returns a display name for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeSmart:
		return "Smart Session"
	case ModeWrong:
		return "Wrong Questions"
	case ModeDue:
		return "Due Today"
	case ModeUnseen:
		return "Unseen First"
	case ModeFlagged:
		return "Flagged Only"
	case ModeRandom:
		return "Quick Mix"
	}
	return string(m)
}

// Description is a one-line summary shown next to the label.
func (m Mode) Description() string {
	switch m {
	case ModeSmart:
		return "70% important, 30% normal, interleaved"
	case ModeWrong:
		return "questions you got wrong, weakest first"
	case ModeDue:
		return "spaced-repetition reviews due today"
	case ModeUnseen:
		return "never-asked questions, then least asked"
	case ModeFlagged:
		return "only bookmarked questions"
	case ModeRandom:
		return "random questions from the pool"
	}
	return ""
}

// Ordered reports whether the mode defines its own presentation order.
// Only Flagged is a bare filter.
func (m Mode) Ordered() bool {
	return m != ModeFlagged
}
