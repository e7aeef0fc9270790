package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/infrastructure/metrics"
)

// TransferUseCase moves funds between posting targets. Every transfer is
// backed by exactly two cash flow legs tagged with the transfer ID, created,
// edited and deleted as a unit.
type TransferUseCase struct {
	txManager    TransactionManager
	ledger       *Ledger
	transferRepo TransferRepository
	cashFlowRepo CashFlowRepository
	idGen        IDGenerator
	refs         LedgerRefs
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	ledger *Ledger,
	transferRepo TransferRepository,
	cashFlowRepo CashFlowRepository,
	idGen IDGenerator,
	refs LedgerRefs,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		ledger:       ledger,
		transferRepo: transferRepo,
		cashFlowRepo: cashFlowRepo,
		idGen:        idGen,
		refs:         refs,
	}
}

// WithRetrier wraps mutating operations with a retrier.
func (uc *TransferUseCase) WithRetrier(r Retrier) *TransferUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables transfer metrics.
func (uc *TransferUseCase) WithMetrics(m *metrics.Metrics) *TransferUseCase {
	uc.metrics = m
	return uc
}

func (uc *TransferUseCase) countError(err error) {
	if uc.metrics == nil || err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		uc.metrics.TransferErrors.WithLabelValues("insufficient_funds").Inc()
	case errors.Is(err, domain.ErrSameTarget):
		uc.metrics.TransferErrors.WithLabelValues("same_target").Inc()
	case errors.Is(err, domain.ErrTransferCompleted):
		uc.metrics.TransferErrors.WithLabelValues("completed").Inc()
	default:
		uc.metrics.TransferErrors.WithLabelValues("other").Inc()
	}
}

func (uc *TransferUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	SourceAccountID       string
	SourceSupplierID      string
	DestinationAccountID  string
	DestinationSupplierID string
	Amount                decimal.Decimal
	Comment               string
}

// CreateTransfer debits the source target, credits the destination and
// writes the transfer with its two legs, all inside one transaction.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.MoneyTransfer, error) {
	transfer := &domain.MoneyTransfer{
		SourceAccountID:       input.SourceAccountID,
		SourceSupplierID:      input.SourceSupplierID,
		DestinationAccountID:  input.DestinationAccountID,
		DestinationSupplierID: input.DestinationSupplierID,
		Amount:                input.Amount,
		Comment:               input.Comment,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		now := time.Now().UTC()
		transfer.ID = uc.idGen.Generate()
		transfer.CreatedAt = now

		err = uc.applyTransfer(ctx, tx, transfer, uc.refs.TransferPurposeID, now)
		if err != nil {
			return err
		}

		if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Inc()
	}

	return transfer, nil
}

// Collect moves a supplier's sub-balance on an account into the cash account
// under the same supplier. It is a transfer with the collection purpose on
// its legs.
func (uc *TransferUseCase) Collect(ctx context.Context, supplierID, accountID string, amount decimal.Decimal) (*domain.MoneyTransfer, error) {
	transfer := &domain.MoneyTransfer{
		SourceAccountID:       accountID,
		SourceSupplierID:      supplierID,
		DestinationAccountID:  uc.refs.CashAccountID,
		DestinationSupplierID: supplierID,
		Amount:                amount,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		now := time.Now().UTC()
		transfer.ID = uc.idGen.Generate()
		transfer.CreatedAt = now

		err = uc.applyTransfer(ctx, tx, transfer, uc.refs.CollectionPurposeID, now)
		if err != nil {
			return err
		}

		if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Inc()
	}

	return transfer, nil
}

// EditTransferInput represents input for editing a transfer.
type EditTransferInput struct {
	ID                    string
	SourceAccountID       string
	SourceSupplierID      string
	DestinationAccountID  string
	DestinationSupplierID string
	Amount                decimal.Decimal
	Comment               string
}

// EditTransfer reverses the original two-sided effect, deletes the old legs
// and applies the transfer with the new values. Completed transfers are
// immutable.
func (uc *TransferUseCase) EditTransfer(ctx context.Context, input EditTransferInput) (*domain.MoneyTransfer, error) {
	var transfer *domain.MoneyTransfer

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		transfer, err = uc.transferRepo.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			return err
		}

		if transfer.Completed {
			return domain.ErrTransferCompleted
		}

		now := time.Now().UTC()

		err = uc.ledger.LockAccounts(ctx, tx,
			transfer.SourceAccountID, transfer.DestinationAccountID,
			input.SourceAccountID, input.DestinationAccountID)
		if err != nil {
			return err
		}

		if err := uc.reverseTransfer(ctx, tx, transfer, now); err != nil {
			return err
		}

		transfer.SourceAccountID = input.SourceAccountID
		transfer.SourceSupplierID = input.SourceSupplierID
		transfer.DestinationAccountID = input.DestinationAccountID
		transfer.DestinationSupplierID = input.DestinationSupplierID
		transfer.Amount = input.Amount
		transfer.Comment = input.Comment

		if err := transfer.Validate(); err != nil {
			return err
		}

		err = uc.applyTransfer(ctx, tx, transfer, uc.refs.TransferPurposeID, now)
		if err != nil {
			return err
		}

		if err := uc.transferRepo.Update(ctx, tx, transfer); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	return transfer, nil
}

// DeleteTransfer reverses both legs and removes the transfer. Completed
// transfers are immutable.
func (uc *TransferUseCase) DeleteTransfer(ctx context.Context, id string) error {
	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		transfer, err := uc.transferRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if transfer.Completed {
			return domain.ErrTransferCompleted
		}

		now := time.Now().UTC()

		err = uc.ledger.LockAccounts(ctx, tx, transfer.SourceAccountID, transfer.DestinationAccountID)
		if err != nil {
			return err
		}

		if err := uc.reverseTransfer(ctx, tx, transfer, now); err != nil {
			return err
		}

		if err := uc.transferRepo.Delete(ctx, tx, transfer.ID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		uc.countError(err)
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersDeleted.Inc()
	}

	return nil
}

// MarkTransferCompleted freezes a transfer after downstream settlement.
func (uc *TransferUseCase) MarkTransferCompleted(ctx context.Context, id string) (*domain.MoneyTransfer, error) {
	var transfer *domain.MoneyTransfer

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		transfer, err = uc.transferRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if transfer.Completed {
			return tx.Commit(ctx)
		}

		transfer.Completed = true

		if err := uc.transferRepo.Update(ctx, tx, transfer); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return transfer, nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.MoneyTransfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersInput represents input for listing transfers.
type ListTransfersInput struct {
	Limit  int
	Offset int
}

// ListTransfers lists transfers, newest first.
func (uc *TransferUseCase) ListTransfers(ctx context.Context, input ListTransfersInput) ([]*domain.MoneyTransfer, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultListLimit
	}

	if input.Limit > MaxListLimit {
		input.Limit = MaxListLimit
	}

	return uc.transferRepo.List(ctx, input.Limit, input.Offset)
}

// applyTransfer moves the funds and writes the two legs. Accounts are locked
// in sorted order before the first posting.
func (uc *TransferUseCase) applyTransfer(ctx context.Context, tx Transaction, transfer *domain.MoneyTransfer, purposeID string, now time.Time) error {
	err := uc.ledger.LockAccounts(ctx, tx, transfer.SourceAccountID, transfer.DestinationAccountID)
	if err != nil {
		return err
	}

	err = uc.ledger.DebitTarget(ctx, tx, transfer.Source(), transfer.Amount, now)
	if err != nil {
		return err
	}

	err = uc.ledger.PostToTarget(ctx, tx, transfer.Destination(), transfer.Amount, now)
	if err != nil {
		return err
	}

	legs := []*domain.CashFlow{
		{
			ID:         uc.idGen.Generate(),
			AccountID:  transfer.SourceAccountID,
			SupplierID: transfer.SourceSupplierID,
			Amount:     transfer.Amount.Neg(),
			PurposeID:  purposeID,
			TransferID: transfer.ID,
			Comment:    transfer.Comment,
			CreatedAt:  now,
		},
		{
			ID:         uc.idGen.Generate(),
			AccountID:  transfer.DestinationAccountID,
			SupplierID: transfer.DestinationSupplierID,
			Amount:     transfer.Amount,
			PurposeID:  purposeID,
			TransferID: transfer.ID,
			Comment:    transfer.Comment,
			CreatedAt:  now,
		},
	}

	for _, leg := range legs {
		if err := uc.cashFlowRepo.Create(ctx, tx, leg); err != nil {
			return err
		}
	}

	return nil
}

// reverseTransfer undoes both balance effects and deletes the legs.
func (uc *TransferUseCase) reverseTransfer(ctx context.Context, tx Transaction, transfer *domain.MoneyTransfer, now time.Time) error {
	err := uc.ledger.PostToTarget(ctx, tx, transfer.Source(), transfer.Amount, now)
	if err != nil {
		return err
	}

	err = uc.ledger.PostToTarget(ctx, tx, transfer.Destination(), transfer.Amount.Neg(), now)
	if err != nil {
		return err
	}

	return uc.cashFlowRepo.DeleteByTransfer(ctx, tx, transfer.ID)
}
