package dto

import (
	"github.com/shopspring/decimal"

	"github.com/orbitcrm/ledger/internal/domain"
	"github.com/orbitcrm/ledger/internal/usecase"
)

// Amounts arrive as arbitrary JSON numbers; anything that is not a whole
// positive number of smallest units is rejected before it reaches the
// ledger core.
var maxAmount = decimal.New(1, 15) // 10^15 smallest units

// MutationRequest is the shared request body for the four balance
// mutations. ProgramID is omitted for credit-account operations.
type MutationRequest struct {
	CustomerID  string          `json:"customer_id"`
	ProgramID   *string         `json:"program_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	OrderID     *string         `json:"order_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// ToUseCaseInput validates the amount and converts to use case input.
// Tenant, actor and idempotency key come from the request envelope, not
// the body.
func (r *MutationRequest) ToUseCaseInput(tenantID, actorID, idempotencyKey string) (usecase.MutationInput, error) {
	if !r.Amount.IsInteger() || !r.Amount.IsPositive() || r.Amount.GreaterThan(maxAmount) {
		return usecase.MutationInput{}, domain.ErrInvalidAmount
	}

	return usecase.MutationInput{
		TenantID:       tenantID,
		SubjectID:      r.CustomerID,
		ProgramID:      r.ProgramID,
		Amount:         r.Amount.IntPart(),
		OrderID:        r.OrderID,
		Description:    r.Description,
		Metadata:       r.Metadata,
		IdempotencyKey: idempotencyKey,
		ActorID:        actorID,
	}, nil
}
