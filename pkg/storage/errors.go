package storage

import "errors"

// ErrRecordNotFound is returned when a settlement ID is unknown to the store.
var ErrRecordNotFound = errors.New("settlement record not found")

// ErrInvalidStateTransition is returned when a record is not in the expected
// state for a transition, e.g. cancelling an already-terminal settlement.
var ErrInvalidStateTransition = errors.New("invalid settlement state transition")
