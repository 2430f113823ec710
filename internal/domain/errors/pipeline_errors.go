package errors

import "errors"

var (
	// ErrStorage indicates the event store could not durably record a write.
	// Callers must surface it as retryable: webhooks answer 500 so the
	// provider redelivers, sweepers log and move to the next candidate.
	ErrStorage = errors.New("event store unavailable")

	// ErrInvalidPurchase indicates a normalized purchase failed validation
	ErrInvalidPurchase = errors.New("invalid purchase input")
)
