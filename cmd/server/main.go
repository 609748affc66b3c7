package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/orbitcrm/ledger/internal/adapter/http"
	"github.com/orbitcrm/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/orbitcrm/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/orbitcrm/ledger/internal/adapter/repository/redis"
	"github.com/orbitcrm/ledger/internal/infrastructure/auth"
	"github.com/orbitcrm/ledger/internal/infrastructure/config"
	"github.com/orbitcrm/ledger/internal/infrastructure/eventpublisher"
	"github.com/orbitcrm/ledger/internal/infrastructure/logger"
	"github.com/orbitcrm/ledger/internal/infrastructure/metrics"
	"github.com/orbitcrm/ledger/internal/infrastructure/postgres"
	"github.com/orbitcrm/ledger/internal/infrastructure/redis"
	"github.com/orbitcrm/ledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	eventRepo := postgresRepo.NewEventRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	programRepo := postgresRepo.NewProgramRepository(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(usecase.LedgerUseCaseConfig{
		TxManager:    txManager,
		AccountRepo:  accountRepo,
		EventRepo:    eventRepo,
		TxnRepo:      txnRepo,
		ProgramRepo:  programRepo,
		CustomerRepo: customerRepo,
		OutboxRepo:   outboxRepo,
		Retrier:      retrier,
		Cache:        cache,
		IDGen:        idGen,
	})
	accountUC := usecase.NewAccountUseCase(accountRepo, eventRepo, txnRepo, cache)
	consistencyUC := usecase.NewConsistencyUseCase(ledgerRepo)

	// Handlers
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, m)
	accountHandler := handler.NewAccountHandler(accountUC, m)
	consistencyHandler := handler.NewConsistencyHandler(consistencyUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:      ledgerHandler,
		AccountHandler:     accountHandler,
		ConsistencyHandler: consistencyHandler,
		HealthHandler:      healthHandler,
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            m,
		Logger:             log,
	})

	// Outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewRedisPublisher(redisClient, cfg.OutboxChannel),
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})

	go func() {
		if err := publisher.Start(publisherCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher exited")
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
