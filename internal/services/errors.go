// internal/services/errors.go
package services

import "errors"

// Service error taxonomy. Handlers map these to HTTP statuses with
// errors.Is, so services wrap them rather than returning them bare.
var (
	// ErrValidation marks malformed or missing input, rejected before
	// matching runs.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a lookup or price update targeting a listing or
	// product that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoOp marks an explicit price update where the new price equals the
	// current price. It is surfaced rather than swallowed because it is
	// caller-initiated and likely a mistake.
	ErrNoOp = errors.New("no-op")

	// ErrConflict marks a concurrent-write race that survived the bounded
	// retries.
	ErrConflict = errors.New("conflict")
)
