package domain

import (
	"time"
)

// Program carries the two policy fields the ledger consumes. Everything
// else about a loyalty program (naming, earn rates, tiers) belongs to the
// surrounding application.
type Program struct {
	ID                string
	TenantID          string
	Name              string
	ExpirationMonths  *int
	MinimumRedemption int64
	CreatedAt         time.Time
}

// ValidateRedemption enforces the program's minimum-redemption policy.
// A nil program (credit accounts) imposes no minimum.
func (p *Program) ValidateRedemption(amount int64) error {
	if p == nil || p.MinimumRedemption <= 0 {
		return nil
	}

	if amount < p.MinimumRedemption {
		return &PolicyViolationError{Minimum: p.MinimumRedemption, Requested: amount}
	}

	return nil
}

// Customer is the subject reference the ledger validates before creating an
// account. It is an opaque foreign key owned by the CRM layer.
type Customer struct {
	ID       string
	TenantID string
}
