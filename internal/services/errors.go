// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Every rejected operation returns one of these typed
// errors so callers can tell "not allowed" from "already done" from "storage
// broke". Nothing in this package swallows a policy or workflow violation.
var (
	// ErrForbidden: the principal lacks the role or scope for the requested
	// operation. Never retried automatically.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound: the request key does not resolve. Terminal for the call.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a concurrent writer got there first; the caller reloads
	// and re-decides. Optimistic lock misses surface as this.
	ErrConflict = errors.New("concurrent modification")

	// Proposal-sequence violations. Client-logic bugs (stale UI state),
	// surfaced verbatim, not retried.
	ErrAlreadySubmitted  = errors.New("proposal slot already submitted")
	ErrOutOfOrder        = errors.New("proposal slot submitted out of order")
	ErrFinalLocked       = errors.New("final proposal locked the negotiation")
	ErrNotInNegotiation  = errors.New("request is not in negotiation stage")
	ErrFinalNotSubmitted = errors.New("final proposal not submitted")
)

// PersistenceError marks a storage failure after a decision was already
// computed. Retryable: the caller repeats the call with the same idempotency
// key (request key + slot, or request key + transition id).
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// IsTransient reports whether the error is a retryable storage failure.
func IsTransient(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsWorkflowViolation reports whether the error is a proposal-sequence
// violation that the UI should surface inline.
func IsWorkflowViolation(err error) bool {
	return errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrOutOfOrder) ||
		errors.Is(err, ErrFinalLocked) ||
		errors.Is(err, ErrNotInNegotiation) ||
		errors.Is(err, ErrFinalNotSubmitted)
}
