package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/orbitcrm/ledger/internal/adapter/http/handler"
	"github.com/orbitcrm/ledger/internal/adapter/http/middleware"
	"github.com/orbitcrm/ledger/internal/infrastructure/auth"
	"github.com/orbitcrm/ledger/internal/infrastructure/metrics"
	"github.com/orbitcrm/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler      *handler.LedgerHandler
	AccountHandler     *handler.AccountHandler
	ConsistencyHandler *handler.ConsistencyHandler
	HealthHandler      *handler.HealthHandler
	JWTManager         *auth.JWTManager // nil trusts gateway identity headers
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	Metrics            *metrics.Metrics
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)

	// Operational endpoints stay outside auth
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(cfg.JWTManager).Wrap)
		r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
		if cfg.Metrics != nil {
			r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
		}
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Loyalty point mutations
		r.Route("/loyalty", func(r chi.Router) {
			r.Post("/accrue", cfg.LedgerHandler.Accrue)
			r.Post("/redeem", cfg.LedgerHandler.Redeem)
		})

		// Credit account mutations
		r.Route("/credit", func(r chi.Router) {
			r.Post("/charges", cfg.LedgerHandler.Charge)
			r.Post("/payments", cfg.LedgerHandler.Payment)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.GetByKey)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/events", cfg.AccountHandler.ListEvents)
			r.Get("/{id}/transactions", cfg.AccountHandler.ListTransactions)
			r.Post("/{id}/deactivate", cfg.AccountHandler.Deactivate)
			r.Post("/{id}/reactivate", cfg.AccountHandler.Reactivate)
		})

		// Ledger audit
		r.Get("/ledger/consistency", cfg.ConsistencyHandler.Check)
	})

	return r
}
