package domain

import (
	"time"
)

// Transaction is the balance-affecting record paired 1:1 with an Event.
// Per account the transaction log is an append-only total order: each row's
// BalanceBefore equals the previous row's BalanceAfter.
type Transaction struct {
	ID            string
	AccountID     string
	EventID       string
	AmountChange  int64
	BalanceBefore int64
	BalanceAfter  int64
	ExpiresAt     *time.Time
	CreatedAt     time.Time
}

// Balanced reports whether the row satisfies
// BalanceAfter = BalanceBefore + AmountChange.
func (t *Transaction) Balanced() bool {
	return t.BalanceAfter == t.BalanceBefore+t.AmountChange
}
