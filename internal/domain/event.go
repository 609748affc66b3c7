package domain

import (
	"time"
)

// EventType classifies the business action behind a balance mutation.
type EventType string

const (
	EventEarned     EventType = "earned"
	EventRedeemed   EventType = "redeemed"
	EventCharge     EventType = "charge"
	EventPayment    EventType = "payment"
	EventFee        EventType = "fee"
	EventAdjustment EventType = "adjustment"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventEarned, EventRedeemed, EventCharge, EventPayment, EventFee, EventAdjustment:
		return true
	}
	return false
}

// Credits reports whether the type increases the balance.
func (t EventType) Credits() bool {
	switch t {
	case EventEarned, EventPayment:
		return true
	}
	return false
}

// Event is the immutable audit fact for one business action. Amount is
// always the non-negative magnitude; the paired Transaction carries the
// signed change.
type Event struct {
	ID             string
	TenantID       string
	AccountID      string
	Type           EventType
	Amount         int64
	Description    string
	Metadata       map[string]any
	OrderID        *string
	IdempotencyKey *string
	CreatedBy      string
	CreatedAt      time.Time
}
