package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orbitcrm/ledger/internal/domain"
	"github.com/orbitcrm/ledger/internal/usecase"
	"github.com/orbitcrm/ledger/internal/usecase/mocks"
)

type ledgerMocks struct {
	accounts  *mocks.MockAccountRepository
	events    *mocks.MockEventRepository
	txns      *mocks.MockTransactionRepository
	programs  *mocks.MockProgramRepository
	customers *mocks.MockCustomerRepository
	outbox    *mocks.MockOutboxRepository
	cache     *mocks.MockCache
	txManager *mocks.MockTxManager
}

func newLedgerUseCase() (*usecase.LedgerUseCase, *ledgerMocks) {
	m := &ledgerMocks{
		accounts:  mocks.NewMockAccountRepository(),
		events:    mocks.NewMockEventRepository(),
		txns:      mocks.NewMockTransactionRepository(),
		programs:  mocks.NewMockProgramRepository(),
		customers: mocks.NewMockCustomerRepository(),
		outbox:    mocks.NewMockOutboxRepository(),
		cache:     mocks.NewMockCache(),
		txManager: mocks.NewMockTxManager(),
	}

	uc := usecase.NewLedgerUseCase(usecase.LedgerUseCaseConfig{
		TxManager:    m.txManager,
		AccountRepo:  m.accounts,
		EventRepo:    m.events,
		TxnRepo:      m.txns,
		ProgramRepo:  m.programs,
		CustomerRepo: m.customers,
		OutboxRepo:   m.outbox,
		Retrier:      mocks.NewMockRetrier(),
		Cache:        m.cache,
		IDGen:        mocks.NewMockIDGenerator(),
	})

	return uc, m
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func loyaltyInput(amount int64) usecase.MutationInput {
	return usecase.MutationInput{
		TenantID:  "tenant-1",
		SubjectID: "cust-1",
		ProgramID: strPtr("prog-1"),
		Amount:    amount,
		ActorID:   "actor-1",
	}
}

func creditInput(amount int64) usecase.MutationInput {
	return usecase.MutationInput{
		TenantID:  "tenant-1",
		SubjectID: "cust-1",
		Amount:    amount,
		ActorID:   "actor-1",
	}
}

func seedLoyaltyAccount(m *ledgerMocks, balance int64, active bool) *domain.Account {
	account := &domain.Account{
		ID:             "acc-1",
		TenantID:       "tenant-1",
		SubjectID:      "cust-1",
		ProgramID:      strPtr("prog-1"),
		CurrentBalance: balance,
		LifetimeEarned: balance,
		IsActive:       active,
	}
	m.accounts.Seed(account)
	m.programs.Seed(&domain.Program{ID: "prog-1", TenantID: "tenant-1", Name: "Main"})
	return account
}

func TestLedgerUseCase_Accrue_ExistingAccount(t *testing.T) {
	uc, m := newLedgerUseCase()
	seedLoyaltyAccount(m, 100, true)

	result, err := uc.Accrue(context.Background(), loyaltyInput(50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.NewBalance != 150 {
		t.Errorf("expected balance 150, got %d", result.NewBalance)
	}
	if result.Transaction.AmountChange != 50 {
		t.Errorf("expected amount change +50, got %d", result.Transaction.AmountChange)
	}
	if result.Transaction.BalanceBefore != 100 || result.Transaction.BalanceAfter != 150 {
		t.Errorf("expected before/after 100/150, got %d/%d",
			result.Transaction.BalanceBefore, result.Transaction.BalanceAfter)
	}
	if result.Event.Type != domain.EventEarned {
		t.Errorf("expected earned event, got %s", result.Event.Type)
	}
	if result.Replayed {
		t.Error("fresh mutation should not be flagged as replayed")
	}

	account, _ := m.accounts.GetByID(context.Background(), "tenant-1", "acc-1")
	if account.CurrentBalance != 150 {
		t.Errorf("expected stored balance 150, got %d", account.CurrentBalance)
	}
	if account.LifetimeEarned != 150 {
		t.Errorf("expected lifetime earned 150, got %d", account.LifetimeEarned)
	}

	if len(m.txManager.Txs) != 1 || !m.txManager.Txs[0].Committed {
		t.Error("expected a single committed transaction")
	}
}

func TestLedgerUseCase_Accrue_CreatesAccountLazily(t *testing.T) {
	uc, m := newLedgerUseCase()
	m.programs.Seed(&domain.Program{ID: "prog-1", TenantID: "tenant-1", Name: "Main"})
	m.customers.Seed("tenant-1", "cust-1")

	result, err := uc.Accrue(context.Background(), loyaltyInput(25))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.NewBalance != 25 {
		t.Errorf("expected balance 25, got %d", result.NewBalance)
	}

	account, err := m.accounts.GetByKey(context.Background(), "tenant-1", "cust-1", strPtr("prog-1"))
	if err != nil {
		t.Fatalf("expected account to be created: %v", err)
	}
	if !account.IsActive {
		t.Error("new accounts should start active")
	}

	var created, changed bool
	for _, e := range m.outbox.Events {
		switch e.EventType {
		case domain.EventTypeAccountCreated:
			created = true
		case domain.EventTypeBalanceChanged:
			changed = true
		}
	}
	if !created || !changed {
		t.Errorf("expected account.created and balance.changed outbox events, got %d events", len(m.outbox.Events))
	}
}

func TestLedgerUseCase_Accrue_UnknownCustomer(t *testing.T) {
	uc, m := newLedgerUseCase()
	m.programs.Seed(&domain.Program{ID: "prog-1", TenantID: "tenant-1", Name: "Main"})

	_, err := uc.Accrue(context.Background(), loyaltyInput(25))
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestLedgerUseCase_Accrue_UnknownProgram(t *testing.T) {
	uc, m := newLedgerUseCase()
	m.customers.Seed("tenant-1", "cust-1")

	_, err := uc.Accrue(context.Background(), loyaltyInput(25))
	if !errors.Is(err, domain.ErrProgramNotFound) {
		t.Fatalf("expected ErrProgramNotFound, got %v", err)
	}
}

func TestLedgerUseCase_Accrue_InactiveAccountStillEarns(t *testing.T) {
	uc, m := newLedgerUseCase()
	seedLoyaltyAccount(m, 100, false)

	result, err := uc.Accrue(context.Background(), loyaltyInput(10))
	if err != nil {
		t.Fatalf("accrual on an inactive account should succeed: %v", err)
	}

	if result.NewBalance != 110 {
		t.Errorf("expected balance 110, got %d", result.NewBalance)
	}
}

func TestLedgerUseCase_Accrue_StampsExpiry(t *testing.T) {
	uc, m := newLedgerUseCase()
	account := &domain.Account{
		ID: "acc-1", TenantID: "tenant-1", SubjectID: "cust-1",
		ProgramID: strPtr("prog-1"), IsActive: true,
	}
	m.accounts.Seed(account)
	m.programs.Seed(&domain.Program{
		ID: "prog-1", TenantID: "tenant-1", Name: "Main", ExpirationMonths: intPtr(12),
	})

	result, err := uc.Accrue(context.Background(), loyaltyInput(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Transaction.ExpiresAt == nil {
		t.Fatal("expected expiry to be stamped")
	}

	want := time.Now().UTC().AddDate(0, 12, 0)
	if diff := result.Transaction.ExpiresAt.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expected expiry near %v, got %v", want, result.Transaction.ExpiresAt)
	}
}

func TestLedgerUseCase_Redeem(t *testing.T) {
	tests := []struct {
		name      string
		balance   int64
		active    bool
		minimum   int64
		amount    int64
		errorType error
	}{
		{name: "happy path", balance: 100, active: true, amount: 40},
		{name: "exact balance", balance: 100, active: true, amount: 100},
		{name: "one over balance", balance: 100, active: true, amount: 101, errorType: domain.ErrInsufficientBalance},
		{name: "inactive account", balance: 100, active: false, amount: 40, errorType: domain.ErrAccountInactive},
		{name: "below program minimum", balance: 100, active: true, minimum: 50, amount: 49, errorType: domain.ErrPolicyViolation},
		{name: "at program minimum", balance: 100, active: true, minimum: 50, amount: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, m := newLedgerUseCase()
			m.accounts.Seed(&domain.Account{
				ID: "acc-1", TenantID: "tenant-1", SubjectID: "cust-1",
				ProgramID: strPtr("prog-1"), CurrentBalance: tt.balance, IsActive: tt.active,
			})
			m.programs.Seed(&domain.Program{
				ID: "prog-1", TenantID: "tenant-1", Name: "Main", MinimumRedemption: tt.minimum,
			})

			result, err := uc.Redeem(context.Background(), loyaltyInput(tt.amount))

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.NewBalance != tt.balance-tt.amount {
				t.Errorf("expected balance %d, got %d", tt.balance-tt.amount, result.NewBalance)
			}
			if result.Transaction.AmountChange != -tt.amount {
				t.Errorf("expected amount change %d, got %d", -tt.amount, result.Transaction.AmountChange)
			}
			if result.Transaction.ExpiresAt != nil {
				t.Error("redemptions must not carry an expiry")
			}
		})
	}
}

func TestLedgerUseCase_Redeem_NeverCreatesAccounts(t *testing.T) {
	uc, m := newLedgerUseCase()
	m.programs.Seed(&domain.Program{ID: "prog-1", TenantID: "tenant-1", Name: "Main"})
	m.customers.Seed("tenant-1", "cust-1")

	_, err := uc.Redeem(context.Background(), loyaltyInput(10))
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	if _, err := m.accounts.GetByKey(context.Background(), "tenant-1", "cust-1", strPtr("prog-1")); err == nil {
		t.Error("a failed redemption must not create the account")
	}
}

func TestLedgerUseCase_Redeem_RejectedAttemptLeavesNoTrace(t *testing.T) {
	uc, m := newLedgerUseCase()
	seedLoyaltyAccount(m, 10, true)

	_, err := uc.Redeem(context.Background(), loyaltyInput(50))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	events, _ := m.events.ListByAccount(context.Background(), "acc-1", 50, 0)
	if len(events) != 0 {
		t.Errorf("expected no events after a rejected redemption, got %d", len(events))
	}

	if len(m.txManager.Txs) != 1 || !m.txManager.Txs[0].RolledBack {
		t.Error("expected the attempt's transaction to roll back")
	}
}

func TestLedgerUseCase_ChargeAndPayment_CreditAccount(t *testing.T) {
	uc, m := newLedgerUseCase()
	m.customers.Seed("tenant-1", "cust-1")

	// Payment lazily creates the credit account.
	result, err := uc.Payment(context.Background(), creditInput(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NewBalance != 200 {
		t.Errorf("expected balance 200, got %d", result.NewBalance)
	}
	if result.Transaction.ExpiresAt != nil {
		t.Error("credit mutations must not carry an expiry")
	}

	account, err := m.accounts.GetByKey(context.Background(), "tenant-1", "cust-1", nil)
	if err != nil {
		t.Fatalf("expected credit account to exist: %v", err)
	}
	if account.ProgramID != nil {
		t.Error("credit accounts must not reference a program")
	}

	// Charge debits it.
	result, err = uc.Charge(context.Background(), creditInput(75))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NewBalance != 125 {
		t.Errorf("expected balance 125, got %d", result.NewBalance)
	}
	if result.Event.Type != domain.EventCharge {
		t.Errorf("expected charge event, got %s", result.Event.Type)
	}
}

func TestLedgerUseCase_Charge_MissingAccount(t *testing.T) {
	uc, m := newLedgerUseCase()
	m.customers.Seed("tenant-1", "cust-1")

	_, err := uc.Charge(context.Background(), creditInput(75))
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedgerUseCase_InvalidAmounts(t *testing.T) {
	uc, m := newLedgerUseCase()
	seedLoyaltyAccount(m, 100, true)

	for _, amount := range []int64{0, -10} {
		if _, err := uc.Accrue(context.Background(), loyaltyInput(amount)); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestLedgerUseCase_IdempotentReplay(t *testing.T) {
	uc, m := newLedgerUseCase()
	seedLoyaltyAccount(m, 100, true)

	input := loyaltyInput(50)
	input.IdempotencyKey = "key-1"

	first, err := uc.Accrue(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := uc.Accrue(context.Background(), input)
	if err != nil {
		t.Fatalf("retried call should replay, got error: %v", err)
	}

	if !second.Replayed {
		t.Error("expected the retried call to be flagged as replayed")
	}
	if second.Event.ID != first.Event.ID {
		t.Errorf("expected the original event %s, got %s", first.Event.ID, second.Event.ID)
	}
	if second.NewBalance != first.NewBalance {
		t.Errorf("expected balance %d, got %d", first.NewBalance, second.NewBalance)
	}

	account, _ := m.accounts.GetByID(context.Background(), "tenant-1", "acc-1")
	if account.CurrentBalance != 150 {
		t.Errorf("balance must move exactly once, got %d", account.CurrentBalance)
	}
}

func TestLedgerUseCase_IdempotencyKeyReusedWithDifferentParameters(t *testing.T) {
	uc, m := newLedgerUseCase()
	seedLoyaltyAccount(m, 100, true)

	input := loyaltyInput(50)
	input.IdempotencyKey = "key-1"

	if _, err := uc.Accrue(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changed := loyaltyInput(60)
	changed.IdempotencyKey = "key-1"

	if _, err := uc.Accrue(context.Background(), changed); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("reused key with a different amount must conflict, got %v", err)
	}

	// Same amount, different operation.
	if _, err := uc.Redeem(context.Background(), input); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("reused key with a different operation must conflict, got %v", err)
	}

	account, _ := m.accounts.GetByID(context.Background(), "tenant-1", "acc-1")
	if account.CurrentBalance != 150 {
		t.Errorf("rejected reuses must not move the balance, got %d", account.CurrentBalance)
	}
}

func TestLedgerUseCase_DuplicateRaceReplaysCommittedResult(t *testing.T) {
	uc, m := newLedgerUseCase()
	seedLoyaltyAccount(m, 100, true)

	// The committed winner of the race.
	committed := &domain.Event{
		ID: "evt-winner", TenantID: "tenant-1", AccountID: "acc-1",
		Type: domain.EventEarned, Amount: 50, IdempotencyKey: strPtr("key-1"),
	}
	m.txns.Create(context.Background(), nil, &domain.Transaction{
		ID: "txn-winner", AccountID: "acc-1", EventID: "evt-winner",
		AmountChange: 50, BalanceBefore: 100, BalanceAfter: 150,
	})

	calls := 0
	m.events.GetByIdempotencyKeyFunc = func(ctx context.Context, tenantID, key string) (*domain.Event, error) {
		calls++
		if calls == 1 {
			// Fast-path check: nothing committed yet.
			return nil, domain.ErrEventNotFound
		}
		return committed, nil
	}
	m.events.CreateFunc = func(ctx context.Context, tx usecase.Tx, event *domain.Event) error {
		return domain.ErrDuplicateOperation
	}

	input := loyaltyInput(50)
	input.IdempotencyKey = "key-1"

	result, err := uc.Accrue(context.Background(), input)
	if err != nil {
		t.Fatalf("expected the loser of the race to replay, got %v", err)
	}

	if !result.Replayed {
		t.Error("expected replayed result")
	}
	if result.Event.ID != "evt-winner" {
		t.Errorf("expected the winner's event, got %s", result.Event.ID)
	}
	if result.NewBalance != 150 {
		t.Errorf("expected the winner's balance 150, got %d", result.NewBalance)
	}
}

func TestLedgerUseCase_MutationInvalidatesCache(t *testing.T) {
	uc, m := newLedgerUseCase()
	seedLoyaltyAccount(m, 100, true)

	key := usecase.AccountCacheKey("tenant-1", "cust-1", strPtr("prog-1"))
	m.cache.Set(context.Background(), key, []byte("stale"), time.Minute)

	if _, err := uc.Accrue(context.Background(), loyaltyInput(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.cache.Get(context.Background(), key); err == nil {
		t.Error("expected the cached read to be invalidated")
	}
}
