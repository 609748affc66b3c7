package domain

import (
	"time"
)

// ExpiryAt computes the point-expiration timestamp for an accrual happening
// at now under the program's policy. Programs without an expiration policy
// (and credit accounts, which have no program) yield nil: points never
// expire.
//
// Month arithmetic uses AddDate's native normalization, so an accrual on
// Jan 31 with a one-month policy expires on Mar 2/3. A separate sweep
// process consumes the stamped timestamp; the ledger never zeroes balances
// itself.
func ExpiryAt(p *Program, now time.Time) *time.Time {
	if p == nil || p.ExpirationMonths == nil {
		return nil
	}

	t := now.AddDate(0, *p.ExpirationMonths, 0)

	return &t
}
