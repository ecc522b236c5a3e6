package models

import "errors"

// Allocation outcomes callers branch on with errors.Is. The first three are
// deterministic results of the current state and are never retried; only
// ErrStorageFailure marks a transient infrastructure fault.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrStorageFailure       = errors.New("storage failure")
)
