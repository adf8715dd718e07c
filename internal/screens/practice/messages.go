package practice

import (
	"time"

	sess "github.com/abhisek/quizbank/internal/session"
)

// startedMsg is sent when the session has been prepared. A nil Runtime
// without an error means nothing matched the selection.
type startedMsg struct {
	Runtime *sess.Runtime
	Err     error
}

// timerTickMsg is sent every second while the session is open.
type timerTickMsg time.Time

// endedMsg is sent when the session was completed and scored.
type endedMsg struct {
	Summary sess.Summary
	Err     error
}

// abandonedMsg is sent when the session was abandoned without scoring.
type abandonedMsg struct {
	Err error
}
