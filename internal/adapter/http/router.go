package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ivlev/dealbook/internal/adapter/http/handler"
	"github.com/ivlev/dealbook/internal/adapter/http/middleware"
	"github.com/ivlev/dealbook/internal/infrastructure/metrics"
	"github.com/ivlev/dealbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler    *handler.AccountHandler
	DealHandler       *handler.DealHandler
	CashFlowHandler   *handler.CashFlowHandler
	TransferHandler   *handler.TransferHandler
	SettlementHandler *handler.SettlementHandler
	CapitalHandler    *handler.CapitalHandler
	HealthHandler     *handler.HealthHandler

	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		if cfg.Metrics != nil {
			limiter.WithMetrics(cfg.Metrics)
		}
		r.Use(limiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts and supplier sub-balances
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/cash-flows", cfg.CashFlowHandler.ListByAccount)
			r.Get("/{id}/suppliers/{supplierID}/balance", cfg.AccountHandler.SupplierBalance)
		})
		r.Get("/supplier-ledger", cfg.AccountHandler.SupplierLedger)

		// Deals
		r.Route("/deals", func(r chi.Router) {
			r.Post("/", cfg.DealHandler.Create)
			r.Get("/", cfg.DealHandler.List)
			r.Get("/{id}", cfg.DealHandler.Get)
			r.Put("/{id}", cfg.DealHandler.Update)
			r.Get("/{id}/debts", cfg.DealHandler.Debts)
			r.Post("/{id}/payment", cfg.DealHandler.RecordPayment)
		})

		// Postings
		r.Route("/cash-flows", func(r chi.Router) {
			r.Post("/", cfg.CashFlowHandler.Create)
			r.Get("/{id}", cfg.CashFlowHandler.Get)
			r.Put("/{id}", cfg.CashFlowHandler.Edit)
			r.Delete("/{id}", cfg.CashFlowHandler.Delete)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/", cfg.TransferHandler.List)
			r.Post("/collect", cfg.TransferHandler.Collect)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Put("/{id}", cfg.TransferHandler.Edit)
			r.Delete("/{id}", cfg.TransferHandler.Delete)
			r.Post("/{id}/complete", cfg.TransferHandler.Complete)
		})

		// Settlements
		r.Route("/settlements", func(r chi.Router) {
			r.Post("/supplier", cfg.SettlementHandler.RepaySupplierDebt)
			r.Post("/client", cfg.SettlementHandler.RepayClientDebt)
			r.Post("/bonus", cfg.SettlementHandler.RepayBonusDebt)
			r.Put("/supplier/{id}/comment", cfg.SettlementHandler.EditSupplierRepaymentComment)
			r.Put("/client/{id}/comment", cfg.SettlementHandler.EditClientRepaymentComment)
		})
		r.Get("/branches/{id}/repayments", cfg.SettlementHandler.ListSupplierRepaymentsByBranch)

		// Investors
		r.Route("/investors", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.CreateInvestor)
			r.Get("/", cfg.AccountHandler.ListInvestors)
			r.Post("/{id}/operations", cfg.SettlementHandler.InvestorOperation)
			r.Get("/{id}/operations", cfg.SettlementHandler.ListInvestorOperations)
			r.Post("/{id}/close-debt", cfg.SettlementHandler.CloseInvestorDebt)
		})

		// Capital
		r.Route("/capital", func(r chi.Router) {
			r.Get("/balance-sheet", cfg.CapitalHandler.BalanceSheet)
			r.Post("/snapshot", cfg.CapitalHandler.Snapshot)
			r.Get("/snapshot", cfg.CapitalHandler.GetSnapshot)
			r.Put("/balance-items", cfg.CapitalHandler.SetBalanceItem)
		})

		// Consistency
		r.Get("/consistency", cfg.CapitalHandler.Consistency)
	})

	return r
}
