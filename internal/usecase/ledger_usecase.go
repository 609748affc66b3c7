package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orbitcrm/ledger/internal/domain"
)

// LedgerUseCase implements the four balance mutations. It is the only
// component that writes balances: every operation locks the account row,
// writes one Event plus one Transaction and updates the cached balance in a
// single datastore transaction.
type LedgerUseCase struct {
	txManager    TxManager
	accountRepo  AccountRepository
	eventRepo    EventRepository
	txnRepo      TransactionRepository
	programRepo  ProgramRepository
	customerRepo CustomerRepository
	outboxRepo   OutboxRepository
	retrier      Retrier
	cache        Cache
	idGen        IDGenerator
}

// LedgerUseCaseConfig holds dependencies for LedgerUseCase.
type LedgerUseCaseConfig struct {
	TxManager    TxManager
	AccountRepo  AccountRepository
	EventRepo    EventRepository
	TxnRepo      TransactionRepository
	ProgramRepo  ProgramRepository
	CustomerRepo CustomerRepository
	OutboxRepo   OutboxRepository
	Retrier      Retrier
	Cache        Cache // optional
	IDGen        IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(cfg LedgerUseCaseConfig) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    cfg.TxManager,
		accountRepo:  cfg.AccountRepo,
		eventRepo:    cfg.EventRepo,
		txnRepo:      cfg.TxnRepo,
		programRepo:  cfg.ProgramRepo,
		customerRepo: cfg.CustomerRepo,
		outboxRepo:   cfg.OutboxRepo,
		retrier:      cfg.Retrier,
		cache:        cfg.Cache,
		idGen:        cfg.IDGen,
	}
}

// MutationInput identifies the account and describes the mutation.
// ProgramID is nil for credit accounts.
type MutationInput struct {
	TenantID       string
	SubjectID      string
	ProgramID      *string
	Amount         int64
	OrderID        *string
	Description    string
	Metadata       map[string]any
	IdempotencyKey string
	ActorID        string
}

// MutationResult is returned from a committed (or replayed) mutation. The
// new balance is the single source of truth post-operation.
type MutationResult struct {
	Event       *domain.Event
	Transaction *domain.Transaction
	NewBalance  int64
	Replayed    bool
}

// Accrue adds earned points to the account, creating it on first use.
func (uc *LedgerUseCase) Accrue(ctx context.Context, input MutationInput) (*MutationResult, error) {
	return uc.apply(ctx, input, domain.EventEarned)
}

// Redeem spends points. The account must exist, be active, hold a
// sufficient balance and satisfy the program's minimum-redemption policy.
func (uc *LedgerUseCase) Redeem(ctx context.Context, input MutationInput) (*MutationResult, error) {
	return uc.apply(ctx, input, domain.EventRedeemed)
}

// Charge applies a fee against the subject's credit account. The account
// must already exist: a freshly created account holds zero and could never
// cover the charge, so charges against a missing account fail instead of
// creating one.
func (uc *LedgerUseCase) Charge(ctx context.Context, input MutationInput) (*MutationResult, error) {
	return uc.apply(ctx, input, domain.EventCharge)
}

// Payment records a payment received onto a credit account.
func (uc *LedgerUseCase) Payment(ctx context.Context, input MutationInput) (*MutationResult, error) {
	return uc.apply(ctx, input, domain.EventPayment)
}

func (uc *LedgerUseCase) apply(ctx context.Context, input MutationInput, eventType domain.EventType) (*MutationResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, err
	}

	// Fast path for retried calls: a key that already committed returns
	// the original result instead of double-applying.
	if input.IdempotencyKey != "" {
		result, err := uc.replay(ctx, input, eventType)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrEventNotFound) {
			return nil, err
		}
	}

	var result *MutationResult

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		result, err = uc.applyOnce(ctx, input, eventType)
		return err
	})
	if err != nil {
		// A unique violation on the idempotency index means a concurrent
		// duplicate won the race; hand back its committed result.
		if errors.Is(err, domain.ErrDuplicateOperation) && input.IdempotencyKey != "" {
			return uc.replay(ctx, input, eventType)
		}
		return nil, err
	}

	uc.invalidate(ctx, input)

	return result, nil
}

// applyOnce runs one attempt of the locked resolve-validate-mutate sequence.
func (uc *LedgerUseCase) applyOnce(ctx context.Context, input MutationInput, eventType domain.EventType) (*MutationResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, program, err := uc.resolveAccount(ctx, tx, input, eventType)
	if err != nil {
		return nil, err
	}

	if !eventType.Credits() {
		if err := account.ValidateDebit(input.Amount); err != nil {
			return nil, err
		}

		if err := program.ValidateRedemption(input.Amount); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	event := &domain.Event{
		ID:          uc.idGen.Generate(),
		TenantID:    input.TenantID,
		AccountID:   account.ID,
		Type:        eventType,
		Amount:      input.Amount,
		Description: input.Description,
		Metadata:    input.Metadata,
		OrderID:     input.OrderID,
		CreatedBy:   input.ActorID,
		CreatedAt:   now,
	}
	if input.IdempotencyKey != "" {
		key := input.IdempotencyKey
		event.IdempotencyKey = &key
	}

	if err := uc.eventRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	signed := input.Amount
	if !eventType.Credits() {
		signed = -input.Amount
	}

	var expiresAt *time.Time
	if eventType == domain.EventEarned {
		expiresAt = domain.ExpiryAt(program, now)
	}

	txn := &domain.Transaction{
		ID:            uc.idGen.Generate(),
		AccountID:     account.ID,
		EventID:       event.ID,
		AmountChange:  signed,
		BalanceBefore: account.CurrentBalance,
		BalanceAfter:  account.CurrentBalance + signed,
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	lifetimeEarned := account.LifetimeEarned
	lifetimeSpent := account.LifetimeSpent
	if eventType.Credits() {
		lifetimeEarned += input.Amount
	} else {
		lifetimeSpent += input.Amount
	}

	err = uc.accountRepo.UpdateBalance(ctx, tx, account.ID, txn.BalanceAfter, lifetimeEarned, lifetimeSpent, now)
	if err != nil {
		return nil, err
	}

	outbox := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeBalanceChanged,
		Payload: map[string]any{
			"tenant_id":      input.TenantID,
			"account_id":     account.ID,
			"event_id":       event.ID,
			"transaction_id": txn.ID,
			"event_type":     string(eventType),
			"amount_change":  signed,
			"new_balance":    txn.BalanceAfter,
		},
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, outbox); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &MutationResult{
		Event:       event,
		Transaction: txn,
		NewBalance:  txn.BalanceAfter,
	}, nil
}

// resolveAccount locks the account row for the triple, lazily creating it
// for credit mutations. Debit mutations never create accounts.
func (uc *LedgerUseCase) resolveAccount(ctx context.Context, tx Tx, input MutationInput, eventType domain.EventType) (*domain.Account, *domain.Program, error) {
	var program *domain.Program

	if input.ProgramID != nil {
		var err error
		program, err = uc.programRepo.GetByIDTx(ctx, tx, input.TenantID, *input.ProgramID)
		if err != nil {
			return nil, nil, err
		}
	}

	account, err := uc.accountRepo.GetByKeyForUpdate(ctx, tx, input.TenantID, input.SubjectID, input.ProgramID)
	if err == nil {
		return account, program, nil
	}

	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, nil, err
	}

	if !eventType.Credits() {
		return nil, nil, domain.ErrAccountNotFound
	}

	exists, err := uc.customerRepo.ExistsTx(ctx, tx, input.TenantID, input.SubjectID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, domain.ErrCustomerNotFound
	}

	now := time.Now().UTC()
	account = &domain.Account{
		ID:        uc.idGen.Generate(),
		TenantID:  input.TenantID,
		SubjectID: input.SubjectID,
		ProgramID: input.ProgramID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, nil, err
	}

	outbox := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountCreated,
		Payload: map[string]any{
			"tenant_id":  input.TenantID,
			"account_id": account.ID,
			"subject_id": input.SubjectID,
		},
		CreatedAt: now,
	}
	if input.ProgramID != nil {
		outbox.Payload["program_id"] = *input.ProgramID
	}

	if err := uc.outboxRepo.Create(ctx, tx, outbox); err != nil {
		return nil, nil, err
	}

	return account, program, nil
}

// replay returns the result originally committed under an idempotency key.
// A key reused with a different operation or amount is a caller bug; it is
// rejected rather than silently answered with the unrelated original.
func (uc *LedgerUseCase) replay(ctx context.Context, input MutationInput, eventType domain.EventType) (*MutationResult, error) {
	event, err := uc.eventRepo.GetByIdempotencyKey(ctx, input.TenantID, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	if event.Type != eventType || event.Amount != input.Amount {
		return nil, fmt.Errorf("idempotency key %q reused with different parameters: %w",
			input.IdempotencyKey, domain.ErrConflict)
	}

	txn, err := uc.txnRepo.GetByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("loading transaction for replayed event %s: %w", event.ID, err)
	}

	return &MutationResult{
		Event:       event,
		Transaction: txn,
		NewBalance:  txn.BalanceAfter,
		Replayed:    true,
	}, nil
}

// invalidate drops the cached account read after a committed mutation.
// Cache misses are repopulated from the datastore, so failures here are
// ignored.
func (uc *LedgerUseCase) invalidate(ctx context.Context, input MutationInput) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, AccountCacheKey(input.TenantID, input.SubjectID, input.ProgramID))
}
