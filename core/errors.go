package core

import "errors"

// Shared sentinel errors for use with errors.Is. No package in this module
// returns or wraps them itself; they are exported for callers' own code.
var (
	// ErrMaxRetriesExceeded marks a retry-exhausted failure.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")

	// ErrInvalidConfiguration marks a construction-time configuration error.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
