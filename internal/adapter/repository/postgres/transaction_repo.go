package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbitcrm/ledger/internal/domain"
	"github.com/orbitcrm/ledger/internal/usecase"
)

const transactionColumns = `id, account_id, event_id, amount_change,
	balance_before, balance_after, expires_at, created_at`

// TransactionRepository implements usecase.TransactionRepository. The
// transaction log is append-only.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a new transaction row within a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	_, err := txq(tx).Exec(ctx, `
		INSERT INTO ledger_transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID, txn.AccountID, txn.EventID, txn.AmountChange,
		txn.BalanceBefore, txn.BalanceAfter, txn.ExpiresAt, txn.CreatedAt,
	)

	return mapError(err)
}

// GetByEvent retrieves the transaction paired with an event.
func (r *TransactionRepository) GetByEvent(ctx context.Context, eventID string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM ledger_transactions
		WHERE event_id = $1`,
		eventID,
	)

	return scanTransaction(row)
}

// ListByAccount lists transactions for an account, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM ledger_transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction

	err := row.Scan(
		&txn.ID, &txn.AccountID, &txn.EventID, &txn.AmountChange,
		&txn.BalanceBefore, &txn.BalanceAfter, &txn.ExpiresAt, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, mapError(err)
	}

	return &txn, nil
}
