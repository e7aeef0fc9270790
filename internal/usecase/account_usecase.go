package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
)

// AccountUseCase handles account, supplier and investor reads plus the few
// setup writes the ledger owns.
type AccountUseCase struct {
	accountRepo  AccountRepository
	subRepo      SupplierAccountRepository
	supplierRepo SupplierRepository
	investorRepo InvestorRepository
	idGen        IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	subRepo SupplierAccountRepository,
	supplierRepo SupplierRepository,
	investorRepo InvestorRepository,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo:  accountRepo,
		subRepo:      subRepo,
		supplierRepo: supplierRepo,
		investorRepo: investorRepo,
		idGen:        idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name        string
	AccountType string
}

// CreateAccount creates an account with a zero balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()
	account := &domain.Account{
		ID:          uc.idGen.Generate(),
		Name:        input.Name,
		AccountType: input.AccountType,
		Balance:     decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// CreateInvestor creates an investor with a zero balance.
func (uc *AccountUseCase) CreateInvestor(ctx context.Context, name string) (*domain.Investor, error) {
	investor := &domain.Investor{
		ID:        uc.idGen.Generate(),
		Name:      name,
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.investorRepo.Create(ctx, investor); err != nil {
		return nil, err
	}

	return investor, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetAccountBalance reads an account's current balance.
func (uc *AccountUseCase) GetAccountBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	return account.Balance, nil
}

// GetSupplierAccountBalance reads a supplier's sub-balance on an account.
// A pair without postings reads as zero.
func (uc *AccountUseCase) GetSupplierAccountBalance(ctx context.Context, supplierID, accountID string) (decimal.Decimal, error) {
	sub, err := uc.subRepo.GetPair(ctx, supplierID, accountID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	return sub.Balance, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultListLimit
	}

	if input.Limit > MaxListLimit {
		input.Limit = MaxListLimit
	}

	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

// SupplierLedgerRow is one supplier's sub-balance on one account, with
// names resolved for the caller's rendering layer.
type SupplierLedgerRow struct {
	SupplierID   string
	SupplierName string
	AccountID    string
	Balance      decimal.Decimal
}

// SupplierLedger returns every existing (supplier, account) sub-balance.
func (uc *AccountUseCase) SupplierLedger(ctx context.Context) ([]SupplierLedgerRow, error) {
	subs, err := uc.subRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	suppliers, err := uc.supplierRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	nameOf := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		nameOf[s.ID] = s.Name
	}

	rows := make([]SupplierLedgerRow, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, SupplierLedgerRow{
			SupplierID:   sub.SupplierID,
			SupplierName: nameOf[sub.SupplierID],
			AccountID:    sub.AccountID,
			Balance:      sub.Balance,
		})
	}

	return rows, nil
}

// ListInvestors lists investors.
func (uc *AccountUseCase) ListInvestors(ctx context.Context) ([]*domain.Investor, error) {
	return uc.investorRepo.List(ctx, nil)
}
