package swapform

import "errors"

var (
	// ErrNotReady is returned by Swap when the submit preconditions do not hold
	ErrNotReady = errors.New("swap is not ready")
	// ErrNoTransactions is returned when the builder returns no payloads
	ErrNoTransactions = errors.New("swap service returned no transactions")

	errNegativeAmount = errors.New("amount cannot be negative")
	errAmountTooLarge = errors.New("amount is too large")
)
