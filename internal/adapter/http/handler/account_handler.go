package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orbitcrm/ledger/internal/adapter/http/dto"
	"github.com/orbitcrm/ledger/internal/adapter/http/middleware"
	"github.com/orbitcrm/ledger/internal/domain"
	"github.com/orbitcrm/ledger/internal/infrastructure/metrics"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	GetAccount(ctx context.Context, tenantID, subjectID string, programID *string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, tenantID, id string) (*domain.Account, error)
	ListEvents(ctx context.Context, tenantID, accountID string, limit, offset int) ([]*domain.Event, error)
	ListTransactions(ctx context.Context, tenantID, accountID string, limit, offset int) ([]*domain.Transaction, error)
	Deactivate(ctx context.Context, tenantID, accountID string) error
	Reactivate(ctx context.Context, tenantID, accountID string) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	metrics   *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler. Metrics may be nil.
func NewAccountHandler(accountUC AccountService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, metrics: m}
}

// GetByKey resolves an account by customer and optional program.
func (h *AccountHandler) GetByKey(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "missing customer_id", "")
		return
	}

	var programID *string
	if p := r.URL.Query().Get("program_id"); p != "" {
		programID = &p
	}

	account, err := h.accountUC.GetAccount(r.Context(), middleware.TenantID(r.Context()), customerID, programID)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccountByID(r.Context(), middleware.TenantID(r.Context()), id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// ListEvents lists an account's events, newest first.
func (h *AccountHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 0)
	offset := parseIntQuery(r, "offset", 0)

	events, err := h.accountUC.ListEvents(r.Context(), middleware.TenantID(r.Context()), id, limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list events", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": dto.EventsFromDomain(events)})
}

// ListTransactions lists an account's transactions, newest first.
func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 0)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.accountUC.ListTransactions(r.Context(), middleware.TenantID(r.Context()), id, limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": dto.TransactionsFromDomain(txns)})
}

// Deactivate marks an account inactive.
func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.accountUC.Deactivate(r.Context(), middleware.TenantID(r.Context()), id); err != nil {
		writeDomainError(w, "failed to deactivate account", err)
		return
	}

	if h.metrics != nil {
		h.metrics.AccountsDeactivated.Inc()
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "inactive"})
}

// Reactivate marks an account active again.
func (h *AccountHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.accountUC.Reactivate(r.Context(), middleware.TenantID(r.Context()), id); err != nil {
		writeDomainError(w, "failed to reactivate account", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}
