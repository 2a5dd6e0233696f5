package errors

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")

	ErrRoomNotFound = errors.New("room not found")

	ErrInvalidID = errors.New("invalid ID format")

	// ErrLockHeld means another reserve call currently owns the advisory
	// lock for a room. Callers retry until their lock-wait deadline.
	ErrLockHeld = errors.New("room lock already held")
)
