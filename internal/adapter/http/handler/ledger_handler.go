package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/orbitcrm/ledger/internal/adapter/http/dto"
	"github.com/orbitcrm/ledger/internal/adapter/http/middleware"
	"github.com/orbitcrm/ledger/internal/infrastructure/metrics"
	"github.com/orbitcrm/ledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Accrue(ctx context.Context, input usecase.MutationInput) (*usecase.MutationResult, error)
	Redeem(ctx context.Context, input usecase.MutationInput) (*usecase.MutationResult, error)
	Charge(ctx context.Context, input usecase.MutationInput) (*usecase.MutationResult, error)
	Payment(ctx context.Context, input usecase.MutationInput) (*usecase.MutationResult, error)
}

// LedgerHandler handles the four balance mutation endpoints.
type LedgerHandler struct {
	ledgerUC LedgerService
	metrics  *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler. Metrics may be nil.
func NewLedgerHandler(ledgerUC LedgerService, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, metrics: m}
}

// Accrue adds earned points to a loyalty account.
func (h *LedgerHandler) Accrue(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "earned", h.ledgerUC.Accrue)
}

// Redeem spends points from a loyalty account.
func (h *LedgerHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "redeemed", h.ledgerUC.Redeem)
}

// Charge applies a charge against a credit account.
func (h *LedgerHandler) Charge(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "charge", h.ledgerUC.Charge)
}

// Payment records a payment onto a credit account.
func (h *LedgerHandler) Payment(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "payment", h.ledgerUC.Payment)
}

type mutationFunc func(ctx context.Context, input usecase.MutationInput) (*usecase.MutationResult, error)

func (h *LedgerHandler) mutate(w http.ResponseWriter, r *http.Request, eventType string, apply mutationFunc) {
	start := time.Now()

	var req dto.MutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(
		middleware.TenantID(r.Context()),
		middleware.ActorID(r.Context()),
		r.Header.Get(middleware.IdempotencyKeyHeader),
	)
	if err != nil {
		writeDomainError(w, "invalid amount", err)
		return
	}

	result, err := apply(r.Context(), input)
	if err != nil {
		if h.metrics != nil {
			h.metrics.MutationErrors.WithLabelValues(eventType, errorLabel(err)).Inc()
		}
		writeDomainError(w, "mutation rejected", err)

		return
	}

	if h.metrics != nil {
		h.metrics.MutationsTotal.WithLabelValues(eventType).Inc()
		h.metrics.MutationDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
		h.metrics.MutationAmount.WithLabelValues(eventType).Observe(float64(input.Amount))
		if result.Replayed {
			h.metrics.IdempotentReplays.Inc()
		}
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
		w.Header().Set("X-Idempotency-Replay", "true")
	}

	writeJSON(w, status, dto.MutationFromResult(result))
}

// errorLabel buckets errors for the metrics label to keep cardinality low.
func errorLabel(err error) string {
	switch mapDomainError(err) {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "rejected"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}
