package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/orbitcrm/ledger/internal/domain"
)

const accountCacheTTL = 30 * time.Second

// AccountCacheKey builds the cache key for an account read. Credit accounts
// (nil program) share the "-" slot.
func AccountCacheKey(tenantID, subjectID string, programID *string) string {
	program := "-"
	if programID != nil {
		program = *programID
	}
	return fmt.Sprintf("account:%s:%s:%s", tenantID, subjectID, program)
}

// AccountUseCase handles account reads and the administrative
// activate/deactivate transitions.
type AccountUseCase struct {
	accountRepo AccountRepository
	eventRepo   EventRepository
	txnRepo     TransactionRepository
	cache       Cache // optional
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, eventRepo EventRepository, txnRepo TransactionRepository, cache Cache) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		eventRepo:   eventRepo,
		txnRepo:     txnRepo,
		cache:       cache,
	}
}

// GetAccount resolves the account for a (tenant, subject, program) triple.
// Reads are served through the cache when one is configured; resolving the
// same triple twice without a mutation returns the identical account.
func (uc *AccountUseCase) GetAccount(ctx context.Context, tenantID, subjectID string, programID *string) (*domain.Account, error) {
	key := AccountCacheKey(tenantID, subjectID, programID)

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, key); err == nil {
			var account domain.Account
			if err := json.Unmarshal(data, &account); err == nil {
				return &account, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByKey(ctx, tenantID, subjectID, programID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(account); err == nil {
			_ = uc.cache.Set(ctx, key, data, accountCacheTTL)
		}
	}

	return account, nil
}

// GetAccountByID retrieves an account by id within a tenant.
func (uc *AccountUseCase) GetAccountByID(ctx context.Context, tenantID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, tenantID, id)
}

// ListEvents lists an account's events, newest first.
func (uc *AccountUseCase) ListEvents(ctx context.Context, tenantID, accountID string, limit, offset int) ([]*domain.Event, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	if _, err := uc.accountRepo.GetByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}

	return uc.eventRepo.ListByAccount(ctx, accountID, limit, offset)
}

// ListTransactions lists an account's transactions, newest first.
func (uc *AccountUseCase) ListTransactions(ctx context.Context, tenantID, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	if _, err := uc.accountRepo.GetByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}

	return uc.txnRepo.ListByAccount(ctx, accountID, limit, offset)
}

// Deactivate marks the account inactive. Redemptions and charges are
// rejected afterwards; history stays queryable and accrual still lands.
func (uc *AccountUseCase) Deactivate(ctx context.Context, tenantID, accountID string) error {
	return uc.setActive(ctx, tenantID, accountID, false)
}

// Reactivate marks the account active again.
func (uc *AccountUseCase) Reactivate(ctx context.Context, tenantID, accountID string) error {
	return uc.setActive(ctx, tenantID, accountID, true)
}

func (uc *AccountUseCase) setActive(ctx context.Context, tenantID, accountID string, active bool) error {
	account, err := uc.accountRepo.GetByID(ctx, tenantID, accountID)
	if err != nil {
		return err
	}

	err = uc.accountRepo.SetActive(ctx, tenantID, accountID, active, time.Now().UTC())
	if err != nil {
		return err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, AccountCacheKey(account.TenantID, account.SubjectID, account.ProgramID))
	}

	return nil
}
