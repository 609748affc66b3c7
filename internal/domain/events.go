package domain

import "time"

// Outbox event types
const (
	EventTypeBalanceChanged = "ledger.balance.changed"
	EventTypeAccountCreated = "ledger.account.created"
)

// Aggregate types
const (
	AggregateTypeAccount = "ledger_account"
)

// OutboxEvent represents an event to be published after commit. Rows are
// written in the same transaction as the ledger mutation they describe and
// drained by the background publisher.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// BalanceChangedEvent payload
type BalanceChangedEvent struct {
	TenantID      string `json:"tenant_id"`
	AccountID     string `json:"account_id"`
	EventID       string `json:"event_id"`
	TransactionID string `json:"transaction_id"`
	EventType     string `json:"event_type"`
	AmountChange  int64  `json:"amount_change"`
	NewBalance    int64  `json:"new_balance"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	TenantID  string  `json:"tenant_id"`
	AccountID string  `json:"account_id"`
	SubjectID string  `json:"subject_id"`
	ProgramID *string `json:"program_id,omitempty"`
}
