package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/orbitcrm/ledger/internal/domain"
)

// PostgreSQL error codes.
const (
	pgErrUniqueViolation      = "23505"
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
)

const idempotencyIndexName = "ux_ledger_events_idempotency"

// mapError translates driver errors into the domain taxonomy. Unique
// violations on the idempotency index mean the operation already committed;
// other unique violations are concurrent-writer conflicts the caller may
// retry. Timeouts surface as StoreUnavailable.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			if pgErr.ConstraintName == idempotencyIndexName {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateOperation, pgErr.ConstraintName)
			}
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		case pgErrSerializationFailure, pgErrDeadlock:
			// Left untranslated so the retrier can recognize it.
			return err
		}
	}

	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return err
}
