package usecase

import (
	"context"
	"time"

	"github.com/orbitcrm/ledger/internal/domain"
)

// AccountRepository defines data access for ledger accounts.
type AccountRepository interface {
	CreateTx(ctx context.Context, tx Tx, account *domain.Account) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Account, error)
	GetByKey(ctx context.Context, tenantID, subjectID string, programID *string) (*domain.Account, error)
	GetByKeyForUpdate(ctx context.Context, tx Tx, tenantID, subjectID string, programID *string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Tx, id string, balance, lifetimeEarned, lifetimeSpent int64, updatedAt time.Time) error
	SetActive(ctx context.Context, tenantID, id string, active bool, updatedAt time.Time) error
}

// EventRepository defines data access for ledger events.
type EventRepository interface {
	Create(ctx context.Context, tx Tx, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Event, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Event, error)
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, txn *domain.Transaction) error
	GetByEvent(ctx context.Context, eventID string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// ProgramRepository defines tenant-scoped access to program policy.
type ProgramRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*domain.Program, error)
	GetByIDTx(ctx context.Context, tx Tx, tenantID, id string) (*domain.Program, error)
}

// CustomerRepository defines the tenant-scoped subject existence check.
type CustomerRepository interface {
	ExistsTx(ctx context.Context, tx Tx, tenantID, id string) (bool, error)
}

// LedgerRepository defines ledger-wide consistency queries.
type LedgerRepository interface {
	// UnbalancedTransactions returns ids of rows violating
	// balance_after = balance_before + amount_change.
	UnbalancedTransactions(ctx context.Context, limit int) ([]string, error)
	// BrokenChainAccounts returns ids of accounts whose transaction log
	// does not chain balance_before to the previous balance_after.
	BrokenChainAccounts(ctx context.Context, limit int) ([]string, error)
	// DriftedAccounts returns ids of accounts whose cached balance differs
	// from the last transaction's balance_after.
	DriftedAccounts(ctx context.Context, limit int) ([]string, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Tx, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Tx represents a datastore transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// Retrier retries an operation on transient datastore conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
