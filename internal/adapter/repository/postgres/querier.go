package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/orbitcrm/ledger/internal/usecase"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so repository
// queries can run on the pool or inside a managed transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txq unwraps the managed transaction into a querier.
func txq(tx usecase.Tx) querier {
	return tx.(*Tx).PgxTx()
}
