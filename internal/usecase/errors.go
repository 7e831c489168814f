package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("resource not found")
	ErrDuplicateSubmission   = errors.New("submission already exists for this week")
	ErrWeekLocked            = errors.New("week is locked for submissions")
	ErrWeekSettled           = errors.New("week is settled and immutable")
	ErrAlreadySettled        = errors.New("week is already settled")
	ErrMatchesIncomplete     = errors.New("not all matches are completed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
