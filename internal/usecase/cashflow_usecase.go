package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/infrastructure/metrics"
)

// CashFlowUseCase handles the posting log: creating, editing and deleting
// cash flows while keeping account and supplier balances synchronized.
type CashFlowUseCase struct {
	txManager    TransactionManager
	ledger       *Ledger
	cashFlowRepo CashFlowRepository
	purposeRepo  PurposeRepository
	dealRepo     DealRepository
	idGen        IDGenerator
	refs         LedgerRefs
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewCashFlowUseCase creates a new CashFlowUseCase.
func NewCashFlowUseCase(
	txManager TransactionManager,
	ledger *Ledger,
	cashFlowRepo CashFlowRepository,
	purposeRepo PurposeRepository,
	dealRepo DealRepository,
	idGen IDGenerator,
	refs LedgerRefs,
) *CashFlowUseCase {
	return &CashFlowUseCase{
		txManager:    txManager,
		ledger:       ledger,
		cashFlowRepo: cashFlowRepo,
		purposeRepo:  purposeRepo,
		dealRepo:     dealRepo,
		idGen:        idGen,
		refs:         refs,
	}
}

// WithRetrier wraps mutating operations with a retrier.
func (uc *CashFlowUseCase) WithRetrier(r Retrier) *CashFlowUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables posting metrics.
func (uc *CashFlowUseCase) WithMetrics(m *metrics.Metrics) *CashFlowUseCase {
	uc.metrics = m
	return uc
}

func (uc *CashFlowUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

// CreateCashFlowInput represents input for creating a posting.
type CreateCashFlowInput struct {
	AccountID  string
	SupplierID string
	Amount     decimal.Decimal
	PurposeID  string
	DealID     string
	Comment    string
	CreatedBy  string
}

// CreateCashFlow creates a posting and applies its balance effect. The sign
// is derived from the purpose: income postings are positive, expense postings
// negative. An expense posting requires sufficient funds on its target. A
// payment posting linked to a deal also grows the deal's paid amount, capped
// at the deal amount.
func (uc *CashFlowUseCase) CreateCashFlow(ctx context.Context, input CreateCashFlowInput) (*domain.CashFlow, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	purpose, err := uc.purposeRepo.GetByID(ctx, input.PurposeID)
	if err != nil {
		return nil, err
	}

	signed := purpose.SignedAmount(input.Amount)

	var cf *domain.CashFlow

	err = uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		now := time.Now().UTC()
		target := domain.PostingTarget{AccountID: input.AccountID, SupplierID: input.SupplierID}

		if signed.IsNegative() {
			err = uc.ledger.DebitTarget(ctx, tx, target, signed.Abs(), now)
		} else {
			err = uc.ledger.PostToTarget(ctx, tx, target, signed, now)
		}
		if err != nil {
			return err
		}

		if input.DealID != "" && purpose.ID == uc.refs.PaymentPurposeID {
			if err := uc.growPaidAmount(ctx, tx, input.DealID, signed, now); err != nil {
				return err
			}
		}

		cf = &domain.CashFlow{
			ID:         uc.idGen.Generate(),
			AccountID:  input.AccountID,
			SupplierID: input.SupplierID,
			Amount:     signed,
			PurposeID:  purpose.ID,
			DealID:     input.DealID,
			Comment:    input.Comment,
			CreatedAt:  now,
			CreatedBy:  input.CreatedBy,
		}

		if err := uc.cashFlowRepo.Create(ctx, tx, cf); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PostingsCreated.Inc()
		uc.metrics.PostingAmount.Observe(signed.Abs().InexactFloat64())
	}

	return cf, nil
}

// EditCashFlowInput represents input for editing a posting.
type EditCashFlowInput struct {
	ID         string
	AccountID  string
	SupplierID string
	Amount     decimal.Decimal
	PurposeID  string
	Comment    string
}

// EditCashFlow reverses the old posting and applies the new one inside one
// transaction. The purpose of an income posting is immutable, and an expense
// posting cannot become income. Transfer legs are rejected; they change only
// through their transfer.
func (uc *CashFlowUseCase) EditCashFlow(ctx context.Context, input EditCashFlowInput) (*domain.CashFlow, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	newPurpose, err := uc.purposeRepo.GetByID(ctx, input.PurposeID)
	if err != nil {
		return nil, err
	}

	var cf *domain.CashFlow

	err = uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		existing, err := uc.cashFlowRepo.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			return err
		}

		if existing.TransferID != "" {
			return domain.ErrTransferLeg
		}

		oldPurpose, err := uc.purposeRepo.GetByID(ctx, existing.PurposeID)
		if err != nil {
			return err
		}

		if oldPurpose.OperationType != newPurpose.OperationType {
			return domain.ErrPurposeImmutable
		}

		if oldPurpose.OperationType == domain.OperationIncome && oldPurpose.ID != newPurpose.ID {
			return domain.ErrPurposeImmutable
		}

		now := time.Now().UTC()
		signed := newPurpose.SignedAmount(input.Amount)

		err = uc.ledger.LockAccounts(ctx, tx, existing.AccountID, input.AccountID)
		if err != nil {
			return err
		}

		// Reverse the old effect, then apply the new one.
		err = uc.ledger.PostToTarget(ctx, tx, existing.Target(), existing.Amount.Neg(), now)
		if err != nil {
			return err
		}

		newTarget := domain.PostingTarget{AccountID: input.AccountID, SupplierID: input.SupplierID}
		if signed.IsNegative() {
			err = uc.ledger.DebitTarget(ctx, tx, newTarget, signed.Abs(), now)
		} else {
			err = uc.ledger.PostToTarget(ctx, tx, newTarget, signed, now)
		}
		if err != nil {
			return err
		}

		if existing.DealID != "" && existing.PurposeID == uc.refs.PaymentPurposeID {
			delta := signed.Sub(existing.Amount)
			if err := uc.growPaidAmount(ctx, tx, existing.DealID, delta, now); err != nil {
				return err
			}
		}

		existing.AccountID = input.AccountID
		existing.SupplierID = input.SupplierID
		existing.Amount = signed
		existing.PurposeID = newPurpose.ID
		existing.Comment = input.Comment

		if err := uc.cashFlowRepo.Update(ctx, tx, existing); err != nil {
			return err
		}

		cf = existing

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PostingsEdited.Inc()
	}

	return cf, nil
}

// DeleteCashFlow reverses the posting's balance effect and removes it. A
// payment posting linked to a deal shrinks the deal's paid amount, floored
// at zero. Transfer legs are rejected.
func (uc *CashFlowUseCase) DeleteCashFlow(ctx context.Context, id string) error {
	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		existing, err := uc.cashFlowRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if existing.TransferID != "" {
			return domain.ErrTransferLeg
		}

		now := time.Now().UTC()

		err = uc.ledger.PostToTarget(ctx, tx, existing.Target(), existing.Amount.Neg(), now)
		if err != nil {
			return err
		}

		if existing.DealID != "" && existing.PurposeID == uc.refs.PaymentPurposeID {
			deal, err := uc.dealRepo.GetByIDForUpdate(ctx, tx, existing.DealID)
			if err != nil {
				return err
			}

			deal.PaidAmount = deal.PaidAmount.Sub(existing.Amount.Abs())
			if deal.PaidAmount.IsNegative() {
				deal.PaidAmount = decimal.Zero
			}
			deal.UpdatedAt = now

			if err := uc.dealRepo.Update(ctx, tx, deal); err != nil {
				return err
			}
		}

		if err := uc.cashFlowRepo.Delete(ctx, tx, existing.ID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.PostingsDeleted.Inc()
	}

	return nil
}

// GetCashFlow retrieves a posting by ID.
func (uc *CashFlowUseCase) GetCashFlow(ctx context.Context, id string) (*domain.CashFlow, error) {
	return uc.cashFlowRepo.GetByID(ctx, id)
}

// ListCashFlowsByAccountInput represents input for listing postings.
type ListCashFlowsByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListCashFlowsByAccount lists postings for an account, newest first.
func (uc *CashFlowUseCase) ListCashFlowsByAccount(ctx context.Context, input ListCashFlowsByAccountInput) ([]*domain.CashFlow, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultListLimit
	}

	if input.Limit > MaxListLimit {
		input.Limit = MaxListLimit
	}

	return uc.cashFlowRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}

// growPaidAmount adjusts a deal's paid amount by delta under lock, enforcing
// the deal amount ceiling and the zero floor.
func (uc *CashFlowUseCase) growPaidAmount(ctx context.Context, tx Transaction, dealID string, delta decimal.Decimal, now time.Time) error {
	deal, err := uc.dealRepo.GetByIDForUpdate(ctx, tx, dealID)
	if err != nil {
		return err
	}

	paid := deal.PaidAmount.Add(delta)
	if paid.GreaterThan(deal.Amount) {
		return domain.ErrOverpayment
	}
	if paid.IsNegative() {
		paid = decimal.Zero
	}

	deal.PaidAmount = paid
	deal.UpdatedAt = now

	return uc.dealRepo.Update(ctx, tx, deal)
}
