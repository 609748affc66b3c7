package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbitcrm/ledger/internal/domain"
	"github.com/orbitcrm/ledger/internal/usecase"
)

const eventColumns = `id, tenant_id, account_id, type, amount, description,
	metadata, order_id, idempotency_key, created_by, created_at`

// EventRepository implements usecase.EventRepository. Events are immutable:
// the repository only ever inserts and reads.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Create inserts a new event within a transaction.
func (r *EventRepository) Create(ctx context.Context, tx usecase.Tx, event *domain.Event) error {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return err
	}
	if event.Metadata == nil {
		metadata = []byte("{}")
	}

	_, err = txq(tx).Exec(ctx, `
		INSERT INTO ledger_events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.TenantID, event.AccountID, string(event.Type), event.Amount,
		event.Description, metadata, event.OrderID, event.IdempotencyKey,
		event.CreatedBy, event.CreatedAt,
	)

	return mapError(err)
}

// GetByID retrieves an event by id.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM ledger_events
		WHERE id = $1`,
		id,
	)

	return scanEvent(row)
}

// GetByIdempotencyKey retrieves the event committed under a tenant-scoped
// idempotency key.
func (r *EventRepository) GetByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM ledger_events
		WHERE tenant_id = $1 AND idempotency_key = $2`,
		tenantID, key,
	)

	return scanEvent(row)
}

// ListByAccount lists events for an account, newest first.
func (r *EventRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM ledger_events
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var (
		event    domain.Event
		typ      string
		metadata []byte
	)

	err := row.Scan(
		&event.ID, &event.TenantID, &event.AccountID, &typ, &event.Amount,
		&event.Description, &metadata, &event.OrderID, &event.IdempotencyKey,
		&event.CreatedBy, &event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, mapError(err)
	}

	event.Type = domain.EventType(typ)

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
			return nil, err
		}
	}

	return &event, nil
}
