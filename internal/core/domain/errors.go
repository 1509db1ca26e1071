package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown calculator type or export format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSaveRejected indicates a calculation with a total <= 0 was not saved.
	// It is an advisory for the user, not a system failure.
	ErrSaveRejected = errors.New("cannot save a calculation with a zero result")

	// ErrStorage indicates the key-value substrate failed to read or write.
	ErrStorage = errors.New("storage error")

	// ErrWatchUnsupported indicates the configured storage cannot report changes.
	ErrWatchUnsupported = errors.New("storage backend does not support watching")
)
