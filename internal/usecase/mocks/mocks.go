// Package mocks provides hand-written test doubles for the usecase
// interfaces. Each mock behaves as a small in-memory store unless a Func
// field overrides the call.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orbitcrm/ledger/internal/domain"
	"github.com/orbitcrm/ledger/internal/usecase"
)

func keyFor(tenantID, subjectID string, programID *string) string {
	program := "-"
	if programID != nil {
		program = *programID
	}
	return tenantID + "/" + subjectID + "/" + program
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	byID     map[string]*domain.Account
	byKey    map[string]*domain.Account
	CreateTxFunc          func(ctx context.Context, tx usecase.Tx, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, tenantID, id string) (*domain.Account, error)
	GetByKeyFunc          func(ctx context.Context, tenantID, subjectID string, programID *string) (*domain.Account, error)
	GetByKeyForUpdateFunc func(ctx context.Context, tx usecase.Tx, tenantID, subjectID string, programID *string) (*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Tx, id string, balance, lifetimeEarned, lifetimeSpent int64, updatedAt time.Time) error
	SetActiveFunc         func(ctx context.Context, tenantID, id string, active bool, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		byID:  make(map[string]*domain.Account),
		byKey: make(map[string]*domain.Account),
	}
}

// Seed registers an account in the in-memory store.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[account.ID] = account
	m.byKey[keyFor(account.TenantID, account.SubjectID, account.ProgramID)] = account
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Tx, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	m.Seed(account)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.byID[id]; ok && acc.TenantID == tenantID {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByKey(ctx context.Context, tenantID, subjectID string, programID *string) (*domain.Account, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, tenantID, subjectID, programID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.byKey[keyFor(tenantID, subjectID, programID)]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByKeyForUpdate(ctx context.Context, tx usecase.Tx, tenantID, subjectID string, programID *string) (*domain.Account, error) {
	if m.GetByKeyForUpdateFunc != nil {
		return m.GetByKeyForUpdateFunc(ctx, tx, tenantID, subjectID, programID)
	}
	return m.GetByKey(ctx, tenantID, subjectID, programID)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Tx, id string, balance, lifetimeEarned, lifetimeSpent int64, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, lifetimeEarned, lifetimeSpent, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.byID[id]; ok {
		acc.CurrentBalance = balance
		acc.LifetimeEarned = lifetimeEarned
		acc.LifetimeSpent = lifetimeSpent
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) SetActive(ctx context.Context, tenantID, id string, active bool, updatedAt time.Time) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, tenantID, id, active, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.byID[id]; ok && acc.TenantID == tenantID {
		acc.IsActive = active
		acc.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrAccountNotFound
}

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
	CreateFunc              func(ctx context.Context, tx usecase.Tx, event *domain.Event) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Event, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, tenantID, key string) (*domain.Event, error)
	ListByAccountFunc       func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Event, error)
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{events: make(map[string]*domain.Event)}
}

func (m *MockEventRepository) Create(ctx context.Context, tx usecase.Tx, event *domain.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if event.IdempotencyKey != nil {
		for _, e := range m.events {
			if e.IdempotencyKey != nil && *e.IdempotencyKey == *event.IdempotencyKey {
				return domain.ErrDuplicateOperation
			}
		}
	}
	m.events[event.ID] = event
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEventNotFound
}

func (m *MockEventRepository) GetByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Event, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, tenantID, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.events {
		if e.IdempotencyKey != nil && *e.IdempotencyKey == key {
			return e, nil
		}
	}
	return nil, domain.ErrEventNotFound
}

func (m *MockEventRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Event, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.Event
	for _, e := range m.events {
		if e.AccountID == accountID {
			events = append(events, e)
		}
	}
	return events, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction
	CreateFunc        func(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error
	GetByEventFunc    func(ctx context.Context, eventID string) (*domain.Transaction, error)
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{txns: make(map[string]*domain.Transaction)}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByEvent(ctx context.Context, eventID string) (*domain.Transaction, error) {
	if m.GetByEventFunc != nil {
		return m.GetByEventFunc(ctx, eventID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.EventID == eventID {
			return t, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, t := range m.txns {
		if t.AccountID == accountID {
			txns = append(txns, t)
		}
	}
	return txns, nil
}

// MockProgramRepository is a mock implementation of ProgramRepository.
type MockProgramRepository struct {
	mu       sync.RWMutex
	programs map[string]*domain.Program
	GetByIDFunc   func(ctx context.Context, tenantID, id string) (*domain.Program, error)
	GetByIDTxFunc func(ctx context.Context, tx usecase.Tx, tenantID, id string) (*domain.Program, error)
}

func NewMockProgramRepository() *MockProgramRepository {
	return &MockProgramRepository{programs: make(map[string]*domain.Program)}
}

func (m *MockProgramRepository) Seed(program *domain.Program) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.programs[program.ID] = program
}

func (m *MockProgramRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Program, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.programs[id]; ok && p.TenantID == tenantID {
		return p, nil
	}
	return nil, domain.ErrProgramNotFound
}

func (m *MockProgramRepository) GetByIDTx(ctx context.Context, tx usecase.Tx, tenantID, id string) (*domain.Program, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, tenantID, id)
	}
	return m.GetByID(ctx, tenantID, id)
}

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]string // id -> tenant
	ExistsTxFunc func(ctx context.Context, tx usecase.Tx, tenantID, id string) (bool, error)
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{customers: make(map[string]string)}
}

func (m *MockCustomerRepository) Seed(tenantID, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[id] = tenantID
}

func (m *MockCustomerRepository) ExistsTx(ctx context.Context, tx usecase.Tx, tenantID, id string) (bool, error) {
	if m.ExistsTxFunc != nil {
		return m.ExistsTxFunc(ctx, tx, tenantID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.customers[id] == tenantID, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	Events []*domain.OutboxEvent
	CreateFunc         func(ctx context.Context, tx usecase.Tx, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Tx, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			at := publishedAt
			e.PublishedAt = &at
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.Events = kept
	return nil
}

// MockTx is a no-op datastore transaction.
type MockTx struct {
	Committed  bool
	RolledBack bool
	CommitFunc func(ctx context.Context) error
}

func (t *MockTx) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTxManager is a mock implementation of TxManager.
type MockTxManager struct {
	BeginFunc func(ctx context.Context) (usecase.Tx, error)
	Txs       []*MockTx
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTx{}
	m.Txs = append(m.Txs, tx)
	return tx, nil
}

// MockRetrier runs the operation exactly once.
type MockRetrier struct{}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// MockIDGenerator generates deterministic sequential IDs.
type MockIDGenerator struct {
	mu sync.Mutex
	n  int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("id-%04d", m.n)
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu      sync.RWMutex
	Data    map[string][]byte
	Deleted []string
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.Data[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{Data: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.Data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.Data[key] = response
	} else {
		m.Data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = response
	return nil
}
