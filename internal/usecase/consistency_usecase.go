package usecase

import (
	"context"
)

const consistencySampleLimit = 100

// ConsistencyUseCase audits the stored ledger against its invariants. It
// reports, never repairs: a non-empty finding means an application bug or
// out-of-band write, not something to patch automatically.
type ConsistencyUseCase struct {
	ledgerRepo LedgerRepository
}

// NewConsistencyUseCase creates a new ConsistencyUseCase.
func NewConsistencyUseCase(ledgerRepo LedgerRepository) *ConsistencyUseCase {
	return &ConsistencyUseCase{ledgerRepo: ledgerRepo}
}

// ConsistencyReport lists invariant violations, capped per category.
type ConsistencyReport struct {
	Consistent             bool     `json:"consistent"`
	UnbalancedTransactions []string `json:"unbalanced_transactions,omitempty"`
	BrokenChainAccounts    []string `json:"broken_chain_accounts,omitempty"`
	DriftedAccounts        []string `json:"drifted_accounts,omitempty"`
}

// Check verifies the three ledger invariants:
//  1. every transaction satisfies balance_after = balance_before + amount_change,
//  2. per account, each transaction's balance_before equals the previous
//     transaction's balance_after in commit order,
//  3. every account's cached balance equals its last balance_after.
func (uc *ConsistencyUseCase) Check(ctx context.Context) (*ConsistencyReport, error) {
	unbalanced, err := uc.ledgerRepo.UnbalancedTransactions(ctx, consistencySampleLimit)
	if err != nil {
		return nil, err
	}

	broken, err := uc.ledgerRepo.BrokenChainAccounts(ctx, consistencySampleLimit)
	if err != nil {
		return nil, err
	}

	drifted, err := uc.ledgerRepo.DriftedAccounts(ctx, consistencySampleLimit)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		Consistent:             len(unbalanced) == 0 && len(broken) == 0 && len(drifted) == 0,
		UnbalancedTransactions: unbalanced,
		BrokenChainAccounts:    broken,
		DriftedAccounts:        drifted,
	}, nil
}
