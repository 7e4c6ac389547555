package models

import "errors"

// Sentinel errors shared by the ledger, the scoring engine and the
// reconciliation coordinator. Callers match them with errors.Is.
var (
	// ErrInvalidInput is returned for malformed numbers, ranks, modes or costs.
	// Nothing is written when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when an operation references a ticket or round
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyScored is returned when an outcome is recorded for a ticket
	// that has already left the pending state. The write is a no-op.
	ErrAlreadyScored = errors.New("ticket already scored")

	// ErrResultsUnavailable means the provider has not published results for
	// the round yet. The round stays pending until a later pass.
	ErrResultsUnavailable = errors.New("results not available yet")

	// ErrProviderError wraps any failure of the external results provider.
	ErrProviderError = errors.New("results provider error")
)
