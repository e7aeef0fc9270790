package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/infrastructure/metrics"
)

// SettlementUseCase settles debts against deals: supplier, client and bonus
// repayments plus investor operations. Outstanding amounts are re-derived
// from deal fields on every call; nothing about a debt is stored.
type SettlementUseCase struct {
	txManager     TransactionManager
	ledger        *Ledger
	dealRepo      DealRepository
	supplierRepo  SupplierRepository
	cashFlowRepo  CashFlowRepository
	investorRepo  InvestorRepository
	repaymentRepo RepaymentRepository
	idGen         IDGenerator
	refs          LedgerRefs
	retrier       Retrier
	metrics       *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	ledger *Ledger,
	dealRepo DealRepository,
	supplierRepo SupplierRepository,
	cashFlowRepo CashFlowRepository,
	investorRepo InvestorRepository,
	repaymentRepo RepaymentRepository,
	idGen IDGenerator,
	refs LedgerRefs,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:     txManager,
		ledger:        ledger,
		dealRepo:      dealRepo,
		supplierRepo:  supplierRepo,
		cashFlowRepo:  cashFlowRepo,
		investorRepo:  investorRepo,
		repaymentRepo: repaymentRepo,
		idGen:         idGen,
		refs:          refs,
	}
}

// WithRetrier wraps mutating operations with a retrier.
func (uc *SettlementUseCase) WithRetrier(r Retrier) *SettlementUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables settlement metrics.
func (uc *SettlementUseCase) WithMetrics(m *metrics.Metrics) *SettlementUseCase {
	uc.metrics = m
	return uc
}

func (uc *SettlementUseCase) countSettlement(kind string, amount decimal.Decimal) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.Settlements.WithLabelValues(kind).Inc()
	uc.metrics.SettlementAmount.WithLabelValues(kind).Observe(amount.InexactFloat64())
}

func (uc *SettlementUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

// RepaySupplierDebtInput represents input for a supplier debt repayment.
// Exactly one of DealID or BranchID is set: a single-deal repayment settles
// one deal, a branch repayment walks the branch's deals oldest-first.
type RepaySupplierDebtInput struct {
	DealID   string
	BranchID string
	Amount   decimal.Decimal
	Comment  string
}

// RepaySupplierDebtResult reports what a repayment consumed.
type RepaySupplierDebtResult struct {
	Repayment   *domain.SupplierDebtRepayment
	CashFlow    *domain.CashFlow
	Allocations []domain.DebtAllocation
}

// RepaySupplierDebt settles supplier debt. The amount may not exceed the
// outstanding supplier debt of the targeted deal or branch, evaluated under
// lock. The funds return to the cash account as one income posting; one
// audit row records the repayment.
func (uc *SettlementUseCase) RepaySupplierDebt(ctx context.Context, input RepaySupplierDebtInput) (*RepaySupplierDebtResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var result *RepaySupplierDebtResult

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		now := time.Now().UTC()

		var (
			allocations []domain.DebtAllocation
			supplierID  string
			dealID      string
		)

		if input.BranchID != "" {
			suppliers, err := uc.supplierRepo.ListByBranch(ctx, input.BranchID)
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(suppliers))
			for _, s := range suppliers {
				ids = append(ids, s.ID)
			}

			deals, err := uc.dealRepo.ListBySuppliersForUpdate(ctx, tx, ids)
			if err != nil {
				return err
			}

			allocations, err = uc.allocateSupplierDebt(ctx, tx, deals, input.Amount, now)
			if err != nil {
				return err
			}
		} else {
			deal, err := uc.dealRepo.GetByIDForUpdate(ctx, tx, input.DealID)
			if err != nil {
				return err
			}

			allocations, err = uc.allocateSupplierDebt(ctx, tx, []*domain.Deal{deal}, input.Amount, now)
			if err != nil {
				return err
			}

			supplierID = deal.SupplierID
			dealID = deal.ID
		}

		target := domain.AccountOnly(uc.refs.CashAccountID)
		if err := uc.ledger.PostToTarget(ctx, tx, target, input.Amount, now); err != nil {
			return err
		}

		cf := &domain.CashFlow{
			ID:        uc.idGen.Generate(),
			AccountID: uc.refs.CashAccountID,
			Amount:    input.Amount,
			PurposeID: uc.refs.RepaymentPurposeID,
			DealID:    dealID,
			Comment:   input.Comment,
			CreatedAt: now,
		}

		if err := uc.cashFlowRepo.Create(ctx, tx, cf); err != nil {
			return err
		}

		repayment := &domain.SupplierDebtRepayment{
			ID:         uc.idGen.Generate(),
			SupplierID: supplierID,
			BranchID:   input.BranchID,
			DealID:     dealID,
			CashFlowID: cf.ID,
			Amount:     input.Amount,
			Comment:    input.Comment,
			CreatedAt:  now,
		}

		if err := uc.repaymentRepo.CreateSupplierRepayment(ctx, tx, repayment); err != nil {
			return err
		}

		result = &RepaySupplierDebtResult{
			Repayment:   repayment,
			CashFlow:    cf,
			Allocations: allocations,
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.countSettlement("supplier", input.Amount)

	return result, nil
}

// allocateSupplierDebt consumes amount across the deals' outstanding
// supplier debt in the given order, incrementing each deal's returned
// counter. The deals arrive oldest-first and locked.
func (uc *SettlementUseCase) allocateSupplierDebt(ctx context.Context, tx Transaction, deals []*domain.Deal, amount decimal.Decimal, now time.Time) ([]domain.DebtAllocation, error) {
	left := amount

	var allocations []domain.DebtAllocation
	for _, deal := range deals {
		if !left.IsPositive() {
			break
		}

		debt := deal.SupplierDebt()
		if !debt.IsPositive() {
			continue
		}

		take := decimal.Min(debt, left)
		deal.ReturnedBySupplier = deal.ReturnedBySupplier.Add(take)
		deal.UpdatedAt = now

		if err := uc.dealRepo.Update(ctx, tx, deal); err != nil {
			return nil, err
		}

		left = left.Sub(take)
		allocations = append(allocations, domain.DebtAllocation{
			DealID:    deal.ID,
			Amount:    take,
			Remaining: deal.SupplierDebt(),
		})
	}

	if left.IsPositive() {
		return nil, domain.ErrDebtCeilingExceeded
	}

	return allocations, nil
}

// RepayClientDebtInput represents input for a client debt repayment.
type RepayClientDebtInput struct {
	DealID  string
	Amount  decimal.Decimal
	Comment string
}

// RepayClientDebtResult reports the repayment and its expense posting.
type RepayClientDebtResult struct {
	Repayment *domain.ClientDebtRepayment
	CashFlow  *domain.CashFlow
}

// RepayClientDebt returns funds to the client out of what the deal's
// supplier holds on the cash account. The amount is capped by the
// paid-derived client debt and by that supplier sub-balance.
func (uc *SettlementUseCase) RepayClientDebt(ctx context.Context, input RepayClientDebtInput) (*RepayClientDebtResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var result *RepayClientDebtResult

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		deal, err := uc.dealRepo.GetByIDForUpdate(ctx, tx, input.DealID)
		if err != nil {
			return err
		}

		if input.Amount.GreaterThan(deal.ClientDebtPaid()) {
			return domain.ErrDebtCeilingExceeded
		}

		now := time.Now().UTC()

		// The payout comes out of what the deal's supplier holds on the
		// cash account, keeping the sub-ledger attributable per supplier.
		target := domain.AccountSupplierPair(uc.refs.CashAccountID, deal.SupplierID)

		if err := uc.ledger.DebitTarget(ctx, tx, target, input.Amount, now); err != nil {
			return err
		}

		deal.ReturnedToClient = deal.ReturnedToClient.Add(input.Amount)
		deal.UpdatedAt = now
		if deal.ClientDebt().IsZero() && deal.ReturnedAt == nil {
			deal.ReturnedAt = &now
		}

		if err := uc.dealRepo.Update(ctx, tx, deal); err != nil {
			return err
		}

		cf := &domain.CashFlow{
			ID:         uc.idGen.Generate(),
			AccountID:  uc.refs.CashAccountID,
			SupplierID: deal.SupplierID,
			Amount:     input.Amount.Neg(),
			PurposeID:  uc.refs.PayoutPurposeID,
			DealID:     deal.ID,
			Comment:    input.Comment,
			CreatedAt:  now,
		}

		if err := uc.cashFlowRepo.Create(ctx, tx, cf); err != nil {
			return err
		}

		repayment := &domain.ClientDebtRepayment{
			ID:         uc.idGen.Generate(),
			ClientID:   deal.ClientID,
			DealID:     deal.ID,
			CashFlowID: cf.ID,
			Amount:     input.Amount,
			Comment:    input.Comment,
			CreatedAt:  now,
		}

		if err := uc.repaymentRepo.CreateClientRepayment(ctx, tx, repayment); err != nil {
			return err
		}

		result = &RepayClientDebtResult{Repayment: repayment, CashFlow: cf}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.countSettlement("client", input.Amount)

	return result, nil
}

// RepayBonusDebt pays out a deal's outstanding bonus from the cash account.
func (uc *SettlementUseCase) RepayBonusDebt(ctx context.Context, dealID string, amount decimal.Decimal) (*domain.CashFlow, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var cf *domain.CashFlow

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

		if amount.GreaterThan(deal.BonusDebt()) {
			return domain.ErrDebtCeilingExceeded
		}

		now := time.Now().UTC()
		target := domain.AccountOnly(uc.refs.CashAccountID)

		if err := uc.ledger.DebitTarget(ctx, tx, target, amount, now); err != nil {
			return err
		}

		deal.ReturnedBonus = deal.ReturnedBonus.Add(amount)
		deal.UpdatedAt = now

		if err := uc.dealRepo.Update(ctx, tx, deal); err != nil {
			return err
		}

		cf = &domain.CashFlow{
			ID:        uc.idGen.Generate(),
			AccountID: uc.refs.CashAccountID,
			Amount:    amount.Neg(),
			PurposeID: uc.refs.PayoutPurposeID,
			DealID:    deal.ID,
			CreatedAt: now,
		}

		if err := uc.cashFlowRepo.Create(ctx, tx, cf); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.countSettlement("bonus", amount)

	return cf, nil
}

// InvestorOperationInput represents an investor balance change.
// Deposit and withdrawal optionally move real funds through the given
// account target. Profit settles investor debt on a deal or an income
// posting and moves no account funds.
type InvestorOperationInput struct {
	InvestorID    string
	OperationType string
	Amount        decimal.Decimal
	AccountID     string
	SupplierID    string
	DealID        string
	CashFlowID    string
}

// InvestorOperation applies a deposit, withdrawal or profit recognition to
// an investor's balance and records the audit row.
func (uc *SettlementUseCase) InvestorOperation(ctx context.Context, input InvestorOperationInput) (*domain.InvestorDebtOperation, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if !domain.ValidInvestorOperation(input.OperationType) {
		return nil, domain.ErrInvalidOperation
	}

	var op *domain.InvestorDebtOperation

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		investor, err := uc.investorRepo.GetByIDForUpdate(ctx, tx, input.InvestorID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		switch input.OperationType {
		case domain.InvestorDeposit:
			if err := uc.moveInvestorFunds(ctx, tx, input, false, now); err != nil {
				return err
			}

			investor.Balance = investor.Balance.Add(input.Amount)

		case domain.InvestorWithdrawal:
			if investor.Balance.LessThan(input.Amount) {
				return domain.ErrInsufficientFunds
			}

			if err := uc.moveInvestorFunds(ctx, tx, input, true, now); err != nil {
				return err
			}

			investor.Balance = investor.Balance.Sub(input.Amount)

		case domain.InvestorProfit:
			if err := uc.recognizeProfit(ctx, tx, input, now); err != nil {
				return err
			}

			investor.Balance = investor.Balance.Add(input.Amount)
		}

		err = uc.investorRepo.UpdateBalance(ctx, tx, investor.ID, investor.Balance)
		if err != nil {
			return err
		}

		op = &domain.InvestorDebtOperation{
			ID:            uc.idGen.Generate(),
			InvestorID:    investor.ID,
			OperationType: input.OperationType,
			Amount:        input.Amount,
			CreatedAt:     now,
		}

		if err := uc.repaymentRepo.CreateInvestorOperation(ctx, tx, op); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.countSettlement(input.OperationType, input.Amount)

	return op, nil
}

// moveInvestorFunds posts the cash side of a deposit or withdrawal when an
// account target was given. Profit recognition never calls it.
func (uc *SettlementUseCase) moveInvestorFunds(ctx context.Context, tx Transaction, input InvestorOperationInput, debit bool, now time.Time) error {
	if input.AccountID == "" {
		return nil
	}

	target := domain.PostingTarget{AccountID: input.AccountID, SupplierID: input.SupplierID}

	var (
		err     error
		amount  decimal.Decimal
		purpose string
	)

	if debit {
		err = uc.ledger.DebitTarget(ctx, tx, target, input.Amount, now)
		amount = input.Amount.Neg()
		purpose = uc.refs.WithdrawalPurposeID
	} else {
		err = uc.ledger.PostToTarget(ctx, tx, target, input.Amount, now)
		amount = input.Amount
		purpose = uc.refs.DepositPurposeID
	}
	if err != nil {
		return err
	}

	cf := &domain.CashFlow{
		ID:         uc.idGen.Generate(),
		AccountID:  input.AccountID,
		SupplierID: input.SupplierID,
		Amount:     amount,
		PurposeID:  purpose,
		CreatedAt:  now,
	}

	return uc.cashFlowRepo.Create(ctx, tx, cf)
}

// recognizeProfit settles investor debt against a deal or the residual of an
// income posting, capped at the outstanding amount.
func (uc *SettlementUseCase) recognizeProfit(ctx context.Context, tx Transaction, input InvestorOperationInput, now time.Time) error {
	switch {
	case input.DealID != "":
		deal, err := uc.dealRepo.GetByIDForUpdate(ctx, tx, input.DealID)
		if err != nil {
			return err
		}

		if input.Amount.GreaterThan(deal.InvestorDebt()) {
			return domain.ErrDebtCeilingExceeded
		}

		deal.ReturnedToInvestor = deal.ReturnedToInvestor.Add(input.Amount)
		deal.UpdatedAt = now

		return uc.dealRepo.Update(ctx, tx, deal)

	case input.CashFlowID != "":
		cf, err := uc.cashFlowRepo.GetByIDForUpdate(ctx, tx, input.CashFlowID)
		if err != nil {
			return err
		}

		if input.Amount.GreaterThan(cf.InvestorResidual()) {
			return domain.ErrDebtCeilingExceeded
		}

		cf.ReturnedToInvestor = cf.ReturnedToInvestor.Add(input.Amount)

		return uc.cashFlowRepo.Update(ctx, tx, cf)
	}

	return domain.ErrDealNotFound
}

// CloseInvestorDebt allocates one amount across all eligible deals'
// outstanding investor debt, oldest deal first, partial-closing the last
// one. A deal is eligible once its bonus and client debts are settled and
// its profit is positive. The investor's balance grows by the full amount.
func (uc *SettlementUseCase) CloseInvestorDebt(ctx context.Context, investorID string, amount decimal.Decimal) ([]domain.DebtAllocation, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var allocations []domain.DebtAllocation

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		investor, err := uc.investorRepo.GetByIDForUpdate(ctx, tx, investorID)
		if err != nil {
			return err
		}

		deals, err := uc.dealRepo.ListPaidForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		left := amount
		allocations = allocations[:0]

		for _, deal := range deals {
			if !left.IsPositive() {
				break
			}

			if !deal.InvestorEligible() {
				continue
			}

			debt := deal.InvestorDebt()
			if !debt.IsPositive() {
				continue
			}

			take := decimal.Min(debt, left)
			deal.ReturnedToInvestor = deal.ReturnedToInvestor.Add(take)
			deal.UpdatedAt = now

			if err := uc.dealRepo.Update(ctx, tx, deal); err != nil {
				return err
			}

			left = left.Sub(take)
			allocations = append(allocations, domain.DebtAllocation{
				DealID:    deal.ID,
				Amount:    take,
				Remaining: deal.InvestorDebt(),
			})
		}

		if left.IsPositive() {
			return domain.ErrDebtCeilingExceeded
		}

		investor.Balance = investor.Balance.Add(amount)

		err = uc.investorRepo.UpdateBalance(ctx, tx, investor.ID, investor.Balance)
		if err != nil {
			return err
		}

		op := &domain.InvestorDebtOperation{
			ID:            uc.idGen.Generate(),
			InvestorID:    investor.ID,
			OperationType: domain.InvestorProfit,
			Amount:        amount,
			CreatedAt:     now,
		}

		if err := uc.repaymentRepo.CreateInvestorOperation(ctx, tx, op); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.countSettlement("investor_close", amount)

	return allocations, nil
}

// EditSupplierRepaymentComment updates the comment on a supplier repayment.
func (uc *SettlementUseCase) EditSupplierRepaymentComment(ctx context.Context, id, comment string) error {
	if _, err := uc.repaymentRepo.GetSupplierRepayment(ctx, id); err != nil {
		return err
	}

	return uc.repaymentRepo.UpdateSupplierRepaymentComment(ctx, id, comment)
}

// EditClientRepaymentComment updates the comment on a client repayment.
func (uc *SettlementUseCase) EditClientRepaymentComment(ctx context.Context, id, comment string) error {
	if _, err := uc.repaymentRepo.GetClientRepayment(ctx, id); err != nil {
		return err
	}

	return uc.repaymentRepo.UpdateClientRepaymentComment(ctx, id, comment)
}

// ListSupplierRepaymentsByBranch lists a branch's supplier repayments.
func (uc *SettlementUseCase) ListSupplierRepaymentsByBranch(ctx context.Context, branchID string) ([]*domain.SupplierDebtRepayment, error) {
	return uc.repaymentRepo.ListSupplierRepaymentsByBranch(ctx, branchID)
}

// ListInvestorOperations lists an investor's audit trail.
func (uc *SettlementUseCase) ListInvestorOperations(ctx context.Context, investorID string) ([]*domain.InvestorDebtOperation, error) {
	return uc.repaymentRepo.ListInvestorOperations(ctx, investorID)
}
