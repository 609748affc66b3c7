package dto

import (
	"time"

	"github.com/orbitcrm/ledger/internal/domain"
	"github.com/orbitcrm/ledger/internal/usecase"
)

// ErrorResponse is the error body. Details carries the structured fields
// (current balance, required minimum, attempted amount) a caller needs to
// render a precise message without a second round-trip.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// MutationResponse is returned from a committed or replayed mutation.
type MutationResponse struct {
	TransactionID string     `json:"transaction_id"`
	EventID       string     `json:"event_id"`
	AccountID     string     `json:"account_id"`
	NewBalance    int64      `json:"new_balance"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Replayed      bool       `json:"replayed,omitempty"`
}

// MutationFromResult converts a use case result.
func MutationFromResult(result *usecase.MutationResult) MutationResponse {
	return MutationResponse{
		TransactionID: result.Transaction.ID,
		EventID:       result.Event.ID,
		AccountID:     result.Event.AccountID,
		NewBalance:    result.NewBalance,
		ExpiresAt:     result.Transaction.ExpiresAt,
		Replayed:      result.Replayed,
	}
}

// AccountResponse represents a ledger account.
type AccountResponse struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	SubjectID      string    `json:"subject_id"`
	ProgramID      *string   `json:"program_id,omitempty"`
	CurrentBalance int64     `json:"current_balance"`
	LifetimeEarned int64     `json:"lifetime_earned"`
	LifetimeSpent  int64     `json:"lifetime_spent"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account.
func AccountFromDomain(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		TenantID:       account.TenantID,
		SubjectID:      account.SubjectID,
		ProgramID:      account.ProgramID,
		CurrentBalance: account.CurrentBalance,
		LifetimeEarned: account.LifetimeEarned,
		LifetimeSpent:  account.LifetimeSpent,
		IsActive:       account.IsActive,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}

// EventResponse represents a ledger event.
type EventResponse struct {
	ID          string         `json:"id"`
	AccountID   string         `json:"account_id"`
	Type        string         `json:"type"`
	Amount      int64          `json:"amount"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	OrderID     *string        `json:"order_id,omitempty"`
	CreatedBy   string         `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
}

// EventsFromDomain converts domain events.
func EventsFromDomain(events []*domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventResponse{
			ID:          e.ID,
			AccountID:   e.AccountID,
			Type:        string(e.Type),
			Amount:      e.Amount,
			Description: e.Description,
			Metadata:    e.Metadata,
			OrderID:     e.OrderID,
			CreatedBy:   e.CreatedBy,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

// TransactionResponse represents a ledger transaction.
type TransactionResponse struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"account_id"`
	EventID       string     `json:"event_id"`
	AmountChange  int64      `json:"amount_change"`
	BalanceBefore int64      `json:"balance_before"`
	BalanceAfter  int64      `json:"balance_after"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TransactionsFromDomain converts domain transactions.
func TransactionsFromDomain(txns []*domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, TransactionResponse{
			ID:            t.ID,
			AccountID:     t.AccountID,
			EventID:       t.EventID,
			AmountChange:  t.AmountChange,
			BalanceBefore: t.BalanceBefore,
			BalanceAfter:  t.BalanceAfter,
			ExpiresAt:     t.ExpiresAt,
			CreatedAt:     t.CreatedAt,
		})
	}
	return out
}
