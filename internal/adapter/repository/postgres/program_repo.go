package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbitcrm/ledger/internal/domain"
	"github.com/orbitcrm/ledger/internal/usecase"
)

const programColumns = `id, tenant_id, name, expiration_months, minimum_redemption, created_at`

// ProgramRepository implements usecase.ProgramRepository. Programs are
// reference data owned by the surrounding application; the ledger only
// reads the two policy fields.
type ProgramRepository struct {
	pool *pgxpool.Pool
}

// NewProgramRepository creates a new ProgramRepository.
func NewProgramRepository(pool *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{pool: pool}
}

// GetByID retrieves a program by id within a tenant.
func (r *ProgramRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Program, error) {
	return getProgram(ctx, r.pool, tenantID, id)
}

// GetByIDTx retrieves a program inside a managed transaction, so the
// existence check shares the mutation's snapshot.
func (r *ProgramRepository) GetByIDTx(ctx context.Context, tx usecase.Tx, tenantID, id string) (*domain.Program, error) {
	return getProgram(ctx, txq(tx), tenantID, id)
}

func getProgram(ctx context.Context, q querier, tenantID, id string) (*domain.Program, error) {
	row := q.QueryRow(ctx, `
		SELECT `+programColumns+`
		FROM programs
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)

	var program domain.Program

	err := row.Scan(
		&program.ID, &program.TenantID, &program.Name,
		&program.ExpirationMonths, &program.MinimumRedemption, &program.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProgramNotFound
		}
		return nil, mapError(err)
	}

	return &program, nil
}
