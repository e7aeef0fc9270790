package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/ivlev/dealbook/internal/adapter/http"
	"github.com/ivlev/dealbook/internal/adapter/http/handler"
	postgresRepo "github.com/ivlev/dealbook/internal/adapter/repository/postgres"
	redisRepo "github.com/ivlev/dealbook/internal/adapter/repository/redis"
	"github.com/ivlev/dealbook/internal/infrastructure/config"
	"github.com/ivlev/dealbook/internal/infrastructure/logger"
	"github.com/ivlev/dealbook/internal/infrastructure/metrics"
	"github.com/ivlev/dealbook/internal/infrastructure/postgres"
	"github.com/ivlev/dealbook/internal/infrastructure/redis"
	"github.com/ivlev/dealbook/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "dealbook"})

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	idGen := postgresRepo.NewULIDGenerator()
	accountRepo := postgresRepo.NewAccountRepository(pool)
	subRepo := postgresRepo.NewSupplierAccountRepository(pool, idGen)
	supplierRepo := postgresRepo.NewSupplierRepository(pool)
	dealRepo := postgresRepo.NewDealRepository(pool)
	cashFlowRepo := postgresRepo.NewCashFlowRepository(pool)
	purposeRepo := postgresRepo.NewPurposeRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	investorRepo := postgresRepo.NewInvestorRepository(pool)
	repaymentRepo := postgresRepo.NewRepaymentRepository(pool)
	capitalRepo := postgresRepo.NewCapitalRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)

	// Well-known ledger rows are resolved once; a missing row is fatal.
	refs, err := usecase.ResolveLedgerRefs(ctx, accountRepo, purposeRepo, usecase.RefNames{
		CashAccount:       cfg.CashAccountName,
		PaymentPurpose:    cfg.PaymentPurposeName,
		TransferPurpose:   cfg.TransferPurposeName,
		CollectionPurpose: cfg.CollectionPurposeName,
		RepaymentPurpose:  cfg.RepaymentPurposeName,
		PayoutPurpose:     cfg.PayoutPurposeName,
		DepositPurpose:    cfg.DepositPurposeName,
		WithdrawalPurpose: cfg.WithdrawalPurposeName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve ledger references")
	}

	m := metrics.New()
	retrier := postgresRepo.NewRetrier(log)
	ledger := usecase.NewLedger(accountRepo, subRepo)

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, subRepo, supplierRepo, investorRepo, idGen)
	dealUC := usecase.NewDealUseCase(txManager, ledger, dealRepo, supplierRepo, cashFlowRepo, idGen, refs).
		WithRetrier(retrier)
	cashFlowUC := usecase.NewCashFlowUseCase(txManager, ledger, cashFlowRepo, purposeRepo, dealRepo, idGen, refs).
		WithRetrier(retrier).
		WithMetrics(m)
	transferUC := usecase.NewTransferUseCase(txManager, ledger, transferRepo, cashFlowRepo, idGen, refs).
		WithRetrier(retrier).
		WithMetrics(m)
	settlementUC := usecase.NewSettlementUseCase(txManager, ledger, dealRepo, supplierRepo, cashFlowRepo, investorRepo, repaymentRepo, idGen, refs).
		WithRetrier(retrier).
		WithMetrics(m)
	snapshotUC := usecase.NewSnapshotUseCase(txManager, accountRepo, subRepo, supplierRepo, dealRepo, capitalRepo, idGen, refs).
		WithRetrier(retrier).
		WithCache(cache).
		WithMetrics(m)
	consistencyUC := usecase.NewConsistencyUseCase(accountRepo, subRepo, cashFlowRepo).
		WithMetrics(m)

	// Handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	dealHandler := handler.NewDealHandler(dealUC)
	cashFlowHandler := handler.NewCashFlowHandler(cashFlowUC)
	transferHandler := handler.NewTransferHandler(transferUC)
	settlementHandler := handler.NewSettlementHandler(settlementUC)
	capitalHandler := handler.NewCapitalHandler(snapshotUC, consistencyUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    accountHandler,
		DealHandler:       dealHandler,
		CashFlowHandler:   cashFlowHandler,
		TransferHandler:   transferHandler,
		SettlementHandler: settlementHandler,
		CapitalHandler:    capitalHandler,
		HealthHandler:     healthHandler,
		Logger:            log,
		Metrics:           m,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
