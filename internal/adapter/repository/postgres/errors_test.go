package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/orbitcrm/ledger/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil passes through",
		},
		{
			name: "idempotency index violation",
			err:  &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: idempotencyIndexName},
			want: domain.ErrDuplicateOperation,
		},
		{
			name: "other unique violation",
			err:  &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "ux_ledger_accounts_key"},
			want: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)

			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}

			if !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMapError_LeavesRetryableErrorsRaw(t *testing.T) {
	for _, code := range []string{pgErrSerializationFailure, pgErrDeadlock} {
		src := &pgconn.PgError{Code: code}

		got := mapError(src)

		var pgErr *pgconn.PgError
		if !errors.As(got, &pgErr) || pgErr.Code != code {
			t.Errorf("code %s: expected the raw driver error, got %v", code, got)
		}
	}
}

func TestMapError_UnknownErrorsPassThrough(t *testing.T) {
	src := errors.New("connection reset")

	if got := mapError(src); !errors.Is(got, src) {
		t.Errorf("expected the original error, got %v", got)
	}
}
