package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a conditional write lost to a concurrent
	// writer (CAS miss or unique-violation on the active-credential index).
	ErrConflict = errors.New("conflicting concurrent write")
)
