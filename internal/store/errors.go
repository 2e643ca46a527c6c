package store

import "errors"

// Sentinel errors surfaced by the store. Handlers map these onto HTTP
// statuses; anything else is treated as a store I/O failure.
var (
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("time conflict with an existing booking")
	ErrDuplicateRoom     = errors.New("room already exists")
	ErrRoomInUse         = errors.New("room has upcoming bookings")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)
