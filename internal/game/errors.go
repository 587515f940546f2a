package game

import "errors"

// Every error a round can surface to a caller. All of them are recoverable:
// the user retries or starts a new session.
var (
	ErrInvalidRequest      = errors.New("invalid_request")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrSessionConflict     = errors.New("session_conflict")
	ErrSessionNotFound     = errors.New("session_not_found")
	ErrIllegalAction       = errors.New("illegal_action")
	ErrCorruptedState      = errors.New("corrupted_state")
)
