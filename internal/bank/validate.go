package bank

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuestion is returned when a question is structurally unusable.
var ErrInvalidQuestion = errors.New("invalid question")

// CheckShape verifies the structure the practice engine depends on: non-empty
// text, exactly the four labeled options, and a correct label among them.
// It does not judge content.
func CheckShape(q *Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidQuestion)
	}
	if len(q.Options) != len(Labels) {
		return fmt.Errorf("%w: want %d options, got %d", ErrInvalidQuestion, len(Labels), len(q.Options))
	}
	for i, o := range q.Options {
		if o.Label != Labels[i] {
			return fmt.Errorf("%w: option %d has label %q, want %q", ErrInvalidQuestion, i, o.Label, Labels[i])
		}
	}
	if !q.HasOption(q.CorrectOption) {
		return fmt.Errorf("%w: correct option %q is not an option label", ErrInvalidQuestion, q.CorrectOption)
	}
	return nil
}
