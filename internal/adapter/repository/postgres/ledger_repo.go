package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// UnbalancedTransactions returns ids of rows where the per-row equation
// balance_after = balance_before + amount_change does not hold.
func (r *LedgerRepository) UnbalancedTransactions(ctx context.Context, limit int) ([]string, error) {
	return r.queryIDs(ctx, `
		SELECT id
		FROM ledger_transactions
		WHERE balance_after <> balance_before + amount_change
		LIMIT $1`,
		limit,
	)
}

// BrokenChainAccounts returns ids of accounts whose log does not hand off
// balance_after to the next row's balance_before in commit order.
func (r *LedgerRepository) BrokenChainAccounts(ctx context.Context, limit int) ([]string, error) {
	return r.queryIDs(ctx, `
		SELECT DISTINCT account_id
		FROM (
			SELECT account_id,
			       balance_before,
			       LAG(balance_after) OVER (
			           PARTITION BY account_id ORDER BY created_at, id
			       ) AS prev_after
			FROM ledger_transactions
		) chain
		WHERE prev_after IS NOT NULL AND balance_before <> prev_after
		LIMIT $1`,
		limit,
	)
}

// DriftedAccounts returns ids of accounts whose cached balance disagrees
// with the last transaction's balance_after (or is non-zero with no log).
func (r *LedgerRepository) DriftedAccounts(ctx context.Context, limit int) ([]string, error) {
	return r.queryIDs(ctx, `
		SELECT a.id
		FROM ledger_accounts a
		LEFT JOIN LATERAL (
			SELECT balance_after
			FROM ledger_transactions t
			WHERE t.account_id = a.id
			ORDER BY t.created_at DESC, t.id DESC
			LIMIT 1
		) last ON true
		WHERE a.current_balance <> COALESCE(last.balance_after, 0)
		LIMIT $1`,
		limit,
	)
}

func (r *LedgerRepository) queryIDs(ctx context.Context, query string, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
