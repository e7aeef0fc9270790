package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByName(ctx context.Context, name string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListAll(ctx context.Context) ([]*domain.Account, error)
}

// SupplierAccountRepository defines data access for supplier sub-balances.
type SupplierAccountRepository interface {
	// GetOrCreateForUpdate locks the (supplier, account) row, creating it
	// with a zero balance if it does not exist yet.
	GetOrCreateForUpdate(ctx context.Context, tx Transaction, supplierID, accountID string) (*domain.SupplierAccount, error)
	GetPair(ctx context.Context, supplierID, accountID string) (*domain.SupplierAccount, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.SupplierAccount, error)
	List(ctx context.Context) ([]*domain.SupplierAccount, error)
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// SupplierRepository defines data access for suppliers and branches.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	List(ctx context.Context) ([]*domain.Supplier, error)
	ListByBranch(ctx context.Context, branchID string) ([]*domain.Supplier, error)
	GetBranch(ctx context.Context, id string) (*domain.Branch, error)
	ListBranches(ctx context.Context) ([]*domain.Branch, error)
}

// DealRepository defines data access for deals.
type DealRepository interface {
	Create(ctx context.Context, deal *domain.Deal) error
	GetByID(ctx context.Context, id string) (*domain.Deal, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Deal, error)
	// ListBySuppliersForUpdate locks and returns paid deals of the given
	// suppliers ordered oldest-first (creation time, then ID).
	ListBySuppliersForUpdate(ctx context.Context, tx Transaction, supplierIDs []string) ([]*domain.Deal, error)
	// ListPaidForUpdate locks and returns all paid deals oldest-first.
	ListPaidForUpdate(ctx context.Context, tx Transaction) ([]*domain.Deal, error)
	Update(ctx context.Context, tx Transaction, deal *domain.Deal) error
	ListPaid(ctx context.Context, before *time.Time) ([]*domain.Deal, error)
	ListAll(ctx context.Context, before *time.Time) ([]*domain.Deal, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Deal, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Deal, error)
}

// CashFlowRepository defines data access for postings.
type CashFlowRepository interface {
	Create(ctx context.Context, tx Transaction, cf *domain.CashFlow) error
	GetByID(ctx context.Context, id string) (*domain.CashFlow, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.CashFlow, error)
	Update(ctx context.Context, tx Transaction, cf *domain.CashFlow) error
	Delete(ctx context.Context, tx Transaction, id string) error
	DeleteByTransfer(ctx context.Context, tx Transaction, transferID string) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.CashFlow, error)
	ListByTransfer(ctx context.Context, transferID string) ([]*domain.CashFlow, error)
	// SumByAccount and SumByPair recompute balances from live postings for
	// the consistency check.
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
	SumByPair(ctx context.Context, supplierID, accountID string) (decimal.Decimal, error)
}

// PurposeRepository defines data access for payment purposes.
type PurposeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.PaymentPurpose, error)
	GetByName(ctx context.Context, name string) (*domain.PaymentPurpose, error)
	List(ctx context.Context) ([]*domain.PaymentPurpose, error)
}

// TransferRepository defines data access for money transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.MoneyTransfer) error
	GetByID(ctx context.Context, id string) (*domain.MoneyTransfer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.MoneyTransfer, error)
	Update(ctx context.Context, tx Transaction, transfer *domain.MoneyTransfer) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.MoneyTransfer, error)
}

// InvestorRepository defines data access for investors.
type InvestorRepository interface {
	Create(ctx context.Context, investor *domain.Investor) error
	GetByID(ctx context.Context, id string) (*domain.Investor, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Investor, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal) error
	List(ctx context.Context, before *time.Time) ([]*domain.Investor, error)
}

// RepaymentRepository defines data access for settlement audit rows.
type RepaymentRepository interface {
	CreateSupplierRepayment(ctx context.Context, tx Transaction, r *domain.SupplierDebtRepayment) error
	GetSupplierRepayment(ctx context.Context, id string) (*domain.SupplierDebtRepayment, error)
	UpdateSupplierRepaymentComment(ctx context.Context, id, comment string) error
	ListSupplierRepaymentsByBranch(ctx context.Context, branchID string) ([]*domain.SupplierDebtRepayment, error)
	CreateClientRepayment(ctx context.Context, tx Transaction, r *domain.ClientDebtRepayment) error
	GetClientRepayment(ctx context.Context, id string) (*domain.ClientDebtRepayment, error)
	UpdateClientRepaymentComment(ctx context.Context, id, comment string) error
	CreateInvestorOperation(ctx context.Context, tx Transaction, op *domain.InvestorDebtOperation) error
	ListInvestorOperations(ctx context.Context, investorID string) ([]*domain.InvestorDebtOperation, error)
}

// CapitalRepository defines data access for balance items and monthly
// capital snapshots.
type CapitalRepository interface {
	SumBalanceItems(ctx context.Context, name string, before *time.Time) (decimal.Decimal, error)
	UpsertBalanceItem(ctx context.Context, item *domain.BalanceItem) error
	UpsertMonthly(ctx context.Context, tx Transaction, mc *domain.MonthlyCapital) error
	GetMonthly(ctx context.Context, year, month int) (*domain.MonthlyCapital, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
