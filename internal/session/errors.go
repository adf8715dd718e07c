package session

import "errors"

var (
	ErrNotInProgress   = errors.New("session is not in progress")
	ErrPaused          = errors.New("session is paused")
	ErrAlreadyFinished = errors.New("session already finished")
	ErrUnknownQuestion = errors.New("question is not part of this session")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("question has not been answered")
	ErrInvalidOption   = errors.New("answer is not one of the question's options")
	ErrOutOfRange      = errors.New("question index out of range")
)
