package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
)

// Ledger mutates Account and SupplierAccount balances as one atomic unit.
// It is the only path through which balances change; every mutation is backed
// by a posting written by the calling usecase.
type Ledger struct {
	accountRepo  AccountRepository
	supplierRepo SupplierAccountRepository
}

// NewLedger creates a new Ledger.
func NewLedger(accountRepo AccountRepository, supplierRepo SupplierAccountRepository) *Ledger {
	return &Ledger{
		accountRepo:  accountRepo,
		supplierRepo: supplierRepo,
	}
}

// PostToTarget applies a signed delta to the target's account balance and,
// when the target carries a supplier, to the lazily created supplier
// sub-balance in lock-step. The account row is locked FOR UPDATE for the
// duration of the transaction.
func (l *Ledger) PostToTarget(ctx context.Context, tx Transaction, target domain.PostingTarget, delta decimal.Decimal, now time.Time) error {
	return l.apply(ctx, tx, target, delta, false, now)
}

// DebitTarget posts a negative delta after a race-free funds check. The check
// reads the supplier sub-balance when the target has one, the account balance
// otherwise, under the same row lock the update uses.
func (l *Ledger) DebitTarget(ctx context.Context, tx Transaction, target domain.PostingTarget, amount decimal.Decimal, now time.Time) error {
	return l.apply(ctx, tx, target, amount.Abs().Neg(), true, now)
}

// LockAccounts takes FOR UPDATE locks on the given accounts in sorted ID
// order. Multi-account operations call it before their first posting so
// concurrent units always lock in the same order.
func (l *Ledger) LockAccounts(ctx context.Context, tx Transaction, ids ...string) error {
	unique := make(map[string]bool, len(ids))

	var ordered []string
	for _, id := range ids {
		if !unique[id] {
			unique[id] = true
			ordered = append(ordered, id)
		}
	}
	sort.Strings(ordered)

	accounts, err := l.accountRepo.GetByIDsForUpdate(ctx, tx, ordered)
	if err != nil {
		return err
	}

	if len(accounts) != len(ordered) {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (l *Ledger) apply(ctx context.Context, tx Transaction, target domain.PostingTarget, delta decimal.Decimal, requireFunds bool, now time.Time) error {
	account, err := l.accountRepo.GetByIDForUpdate(ctx, tx, target.AccountID)
	if err != nil {
		return err
	}

	var sub *domain.SupplierAccount
	if target.HasSupplier() {
		sub, err = l.supplierRepo.GetOrCreateForUpdate(ctx, tx, target.SupplierID, target.AccountID)
		if err != nil {
			return err
		}
	}

	if requireFunds {
		available := account.Balance
		if sub != nil {
			available = sub.Balance
		}

		if available.LessThan(delta.Neg()) {
			return domain.ErrInsufficientFunds
		}
	}

	err = l.accountRepo.UpdateBalance(ctx, tx, account.ID, account.Balance.Add(delta), now)
	if err != nil {
		return err
	}

	if sub != nil {
		err = l.supplierRepo.UpdateBalance(ctx, tx, sub.ID, sub.Balance.Add(delta))
		if err != nil {
			return err
		}
	}

	return nil
}
