package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbitcrm/ledger/internal/usecase"
)

// CustomerRepository implements usecase.CustomerRepository. The customers
// table belongs to the CRM layer; the ledger only checks that the subject
// of a new account exists within the tenant.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// ExistsTx checks subject existence inside a managed transaction.
func (r *CustomerRepository) ExistsTx(ctx context.Context, tx usecase.Tx, tenantID, id string) (bool, error) {
	var exists bool

	err := txq(tx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM customers WHERE tenant_id = $1 AND id = $2
		)`,
		tenantID, id,
	).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}

	return exists, nil
}
