package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
)

// DealUseCase handles deal lifecycle and payment recording.
type DealUseCase struct {
	txManager    TransactionManager
	ledger       *Ledger
	dealRepo     DealRepository
	supplierRepo SupplierRepository
	cashFlowRepo CashFlowRepository
	idGen        IDGenerator
	refs         LedgerRefs
	retrier      Retrier
}

// NewDealUseCase creates a new DealUseCase.
func NewDealUseCase(
	txManager TransactionManager,
	ledger *Ledger,
	dealRepo DealRepository,
	supplierRepo SupplierRepository,
	cashFlowRepo CashFlowRepository,
	idGen IDGenerator,
	refs LedgerRefs,
) *DealUseCase {
	return &DealUseCase{
		txManager:    txManager,
		ledger:       ledger,
		dealRepo:     dealRepo,
		supplierRepo: supplierRepo,
		cashFlowRepo: cashFlowRepo,
		idGen:        idGen,
		refs:         refs,
	}
}

// WithRetrier wraps mutating operations with a retrier.
func (uc *DealUseCase) WithRetrier(r Retrier) *DealUseCase {
	uc.retrier = r
	return uc
}

func (uc *DealUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

// CreateDealInput represents input for creating a deal.
type CreateDealInput struct {
	ClientID           string
	SupplierID         string
	Amount             decimal.Decimal
	ClientPercentage   decimal.Decimal
	BonusPercentage    decimal.Decimal
	SupplierPercentage decimal.Decimal
	Documents          bool
}

// CreateDeal creates a deal with zeroed payment and return counters.
func (uc *DealUseCase) CreateDeal(ctx context.Context, input CreateDealInput) (*domain.Deal, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	for _, p := range []decimal.Decimal{input.ClientPercentage, input.BonusPercentage, input.SupplierPercentage} {
		if err := domain.ValidatePercentage(p); err != nil {
			return nil, err
		}
	}

	if _, err := uc.supplierRepo.GetByID(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deal := &domain.Deal{
		ID:                 uc.idGen.Generate(),
		ClientID:           input.ClientID,
		SupplierID:         input.SupplierID,
		Amount:             input.Amount,
		ClientPercentage:   input.ClientPercentage,
		BonusPercentage:    input.BonusPercentage,
		SupplierPercentage: input.SupplierPercentage,
		PaidAmount:         decimal.Zero,
		ReturnedBySupplier: decimal.Zero,
		ReturnedToClient:   decimal.Zero,
		ReturnedBonus:      decimal.Zero,
		ReturnedToInvestor: decimal.Zero,
		Documents:          input.Documents,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.dealRepo.Create(ctx, deal); err != nil {
		return nil, err
	}

	return deal, nil
}

// UpdateDealInput represents input for editing a deal's terms.
type UpdateDealInput struct {
	ID                 string
	Amount             decimal.Decimal
	ClientPercentage   decimal.Decimal
	BonusPercentage    decimal.Decimal
	SupplierPercentage decimal.Decimal
	Documents          bool
}

// UpdateDeal changes a deal's amount and percentages. The edit is rejected
// when any derived debt would be driven negative by returns already recorded,
// or when the new amount falls below what has been paid.
func (uc *DealUseCase) UpdateDeal(ctx context.Context, input UpdateDealInput) (*domain.Deal, error) {
	var deal *domain.Deal

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		deal, err = uc.dealRepo.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			return err
		}

		err = deal.ValidateEdit(input.Amount, input.ClientPercentage, input.BonusPercentage, input.SupplierPercentage)
		if err != nil {
			return err
		}

		deal.Amount = input.Amount
		deal.ClientPercentage = input.ClientPercentage
		deal.BonusPercentage = input.BonusPercentage
		deal.SupplierPercentage = input.SupplierPercentage
		deal.Documents = input.Documents
		deal.UpdatedAt = time.Now().UTC()

		if err := uc.dealRepo.Update(ctx, tx, deal); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return deal, nil
}

// RecordPaymentResult reports the payment delta and the posting it produced,
// if any.
type RecordPaymentResult struct {
	Deal     *domain.Deal
	Delta    decimal.Decimal
	CashFlow *domain.CashFlow
}

// RecordPayment sets a deal's paid amount. A positive delta posts income to
// the supplier's default account under the payment purpose, linked to the
// deal, moving the account and supplier sub-balance in lock-step. A negative
// delta only shrinks the counter; no posting is created.
func (uc *DealUseCase) RecordPayment(ctx context.Context, dealID string, newPaidAmount decimal.Decimal) (*RecordPaymentResult, error) {
	if newPaidAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	var result *RecordPaymentResult

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		deal, err := uc.dealRepo.GetByIDForUpdate(ctx, tx, dealID)
		if err != nil {
			return err
		}

		if newPaidAmount.GreaterThan(deal.Amount) {
			return domain.ErrOverpayment
		}

		now := time.Now().UTC()
		delta := newPaidAmount.Sub(deal.PaidAmount)
		result = &RecordPaymentResult{Deal: deal, Delta: delta}

		if delta.IsPositive() {
			supplier, err := uc.supplierRepo.GetByID(ctx, deal.SupplierID)
			if err != nil {
				return err
			}

			if supplier.DefaultAccountID == "" {
				return domain.ErrNoDefaultAccount
			}

			target := domain.AccountSupplierPair(supplier.DefaultAccountID, supplier.ID)
			if err := uc.ledger.PostToTarget(ctx, tx, target, delta, now); err != nil {
				return err
			}

			cf := &domain.CashFlow{
				ID:         uc.idGen.Generate(),
				AccountID:  supplier.DefaultAccountID,
				SupplierID: supplier.ID,
				Amount:     delta,
				PurposeID:  uc.refs.PaymentPurposeID,
				DealID:     deal.ID,
				CreatedAt:  now,
			}

			if err := uc.cashFlowRepo.Create(ctx, tx, cf); err != nil {
				return err
			}

			result.CashFlow = cf
		}

		deal.PaidAmount = newPaidAmount
		deal.UpdatedAt = now

		if err := uc.dealRepo.Update(ctx, tx, deal); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetDeal retrieves a deal by ID.
func (uc *DealUseCase) GetDeal(ctx context.Context, id string) (*domain.Deal, error) {
	return uc.dealRepo.GetByID(ctx, id)
}

// GetDealDebts recomputes a deal's derived debts from its current fields.
func (uc *DealUseCase) GetDealDebts(ctx context.Context, id string) (*domain.Debts, error) {
	deal, err := uc.dealRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	debts := deal.DeriveDebts()

	return &debts, nil
}

// ListDealsInput represents input for listing deals.
type ListDealsInput struct {
	Limit  int
	Offset int
}

// ListDeals lists deals, newest first.
func (uc *DealUseCase) ListDeals(ctx context.Context, input ListDealsInput) ([]*domain.Deal, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultListLimit
	}

	if input.Limit > MaxListLimit {
		input.Limit = MaxListLimit
	}

	return uc.dealRepo.List(ctx, input.Limit, input.Offset)
}
