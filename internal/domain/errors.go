package domain

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrProgramNotFound     = errors.New("program not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Mutation errors
	ErrInvalidAmount       = errors.New("amount must be a positive integer")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPolicyViolation     = errors.New("amount below minimum redemption")

	// ErrDuplicateOperation signals that an idempotency key has already
	// been committed; the caller receives the original result.
	ErrDuplicateOperation = errors.New("operation already applied")

	// Datastore errors. Both are safe for the caller to retry with the
	// same idempotency key.
	ErrConflict         = errors.New("concurrent update conflict")
	ErrStoreUnavailable = errors.New("datastore unavailable")
)

// InsufficientBalanceError carries the data a caller needs to render an
// actionable message without a second round-trip.
type InsufficientBalanceError struct {
	Balance   int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, requested %d", e.Balance, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// PolicyViolationError is returned when a redemption falls below the
// program's minimum.
type PolicyViolationError struct {
	Minimum   int64
	Requested int64
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("redemption of %d below program minimum of %d", e.Requested, e.Minimum)
}

func (e *PolicyViolationError) Unwrap() error {
	return ErrPolicyViolation
}
