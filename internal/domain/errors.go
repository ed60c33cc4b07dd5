package domain

import "errors"

var (
	// ErrPoolUnavailable is returned when a candidate pool could not be
	// fetched or came back empty; generation never degrades silently.
	ErrPoolUnavailable = errors.New("candidate pool unavailable")
	// ErrInvalidSettings rejects unusable session settings at generation time.
	ErrInvalidSettings = errors.New("invalid quiz settings")
	// ErrSessionNotFound is returned for lookups of unknown or discarded sessions.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionNotReady rejects play operations before questions are attached.
	ErrSessionNotReady = errors.New("quiz session not ready")
	// ErrSessionCompleted rejects submissions after the terminal state.
	ErrSessionCompleted = errors.New("quiz session already completed")
	// ErrAnswerPending rejects submissions while the current result is shown.
	ErrAnswerPending = errors.New("answer already recorded for current question")
	// ErrSessionNotCompleted is returned when a summary is requested too early.
	ErrSessionNotCompleted = errors.New("quiz session not completed")
	// ErrProfileNotFound indicates an unknown user in the profile store.
	ErrProfileNotFound = errors.New("profile not found")
)
