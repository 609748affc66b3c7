package domain

import (
	"time"
)

// Account is the balance-holding record for one (tenant, subject, program)
// triple. ProgramID is nil for credit accounts that are not attached to a
// loyalty program.
//
// CurrentBalance is a cached aggregate: it always equals the running sum of
// committed transaction amount changes for the account and is only ever
// written in the same datastore transaction as the log entry that moves it.
type Account struct {
	ID             string
	TenantID       string
	SubjectID      string
	ProgramID      *string
	CurrentBalance int64
	LifetimeEarned int64
	LifetimeSpent  int64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateDebit checks that amount can be taken from the account. Debits
// require an active account; credits do not (accrual on a deactivated
// account is allowed, matching the asymmetry of the earn path).
func (a *Account) ValidateDebit(amount int64) error {
	if !a.IsActive {
		return ErrAccountInactive
	}

	if a.CurrentBalance < amount {
		return &InsufficientBalanceError{Balance: a.CurrentBalance, Requested: amount}
	}

	return nil
}

// ApplyCredit returns the balance after adding amount.
func (a *Account) ApplyCredit(amount int64) int64 {
	return a.CurrentBalance + amount
}

// ApplyDebit returns the balance after subtracting amount.
func (a *Account) ApplyDebit(amount int64) int64 {
	return a.CurrentBalance - amount
}
