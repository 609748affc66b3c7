package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbitcrm/ledger/internal/domain"
	"github.com/orbitcrm/ledger/internal/usecase"
)

const accountColumns = `id, tenant_id, subject_id, program_id, current_balance,
	lifetime_earned, lifetime_spent, is_active, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// CreateTx inserts a new account within a transaction.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Tx, account *domain.Account) error {
	_, err := txq(tx).Exec(ctx, `
		INSERT INTO ledger_accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID, account.TenantID, account.SubjectID, account.ProgramID,
		account.CurrentBalance, account.LifetimeEarned, account.LifetimeSpent,
		account.IsActive, account.CreatedAt, account.UpdatedAt,
	)

	return mapError(err)
}

// GetByID retrieves an account by id within a tenant.
func (r *AccountRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM ledger_accounts
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)

	return scanAccount(row)
}

// GetByKey retrieves the account for a (tenant, subject, program) triple.
func (r *AccountRepository) GetByKey(ctx context.Context, tenantID, subjectID string, programID *string) (*domain.Account, error) {
	return getAccountByKey(ctx, r.pool, tenantID, subjectID, programID, false)
}

// GetByKeyForUpdate retrieves the account for a triple with a FOR UPDATE
// lock, serializing concurrent mutations against the same account.
func (r *AccountRepository) GetByKeyForUpdate(ctx context.Context, tx usecase.Tx, tenantID, subjectID string, programID *string) (*domain.Account, error) {
	return getAccountByKey(ctx, txq(tx), tenantID, subjectID, programID, true)
}

func getAccountByKey(ctx context.Context, q querier, tenantID, subjectID string, programID *string, forUpdate bool) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM ledger_accounts
		WHERE tenant_id = $1 AND subject_id = $2
		  AND COALESCE(program_id, '') = COALESCE($3::text, '')`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	return scanAccount(q.QueryRow(ctx, query, tenantID, subjectID, programID))
}

// UpdateBalance writes the cached balance and lifetime counters. Only ever
// called in the same transaction as the event/transaction inserts.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Tx, id string, balance, lifetimeEarned, lifetimeSpent int64, updatedAt time.Time) error {
	_, err := txq(tx).Exec(ctx, `
		UPDATE ledger_accounts
		SET current_balance = $2, lifetime_earned = $3, lifetime_spent = $4, updated_at = $5
		WHERE id = $1`,
		id, balance, lifetimeEarned, lifetimeSpent, updatedAt,
	)

	return mapError(err)
}

// SetActive flips the administrative active flag.
func (r *AccountRepository) SetActive(ctx context.Context, tenantID, id string, active bool, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ledger_accounts
		SET is_active = $3, updated_at = $4
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, active, updatedAt,
	)
	if err != nil {
		return mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account

	err := row.Scan(
		&account.ID, &account.TenantID, &account.SubjectID, &account.ProgramID,
		&account.CurrentBalance, &account.LifetimeEarned, &account.LifetimeSpent,
		&account.IsActive, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, mapError(err)
	}

	return &account, nil
}
