package usecase

import (
	"context"
	"fmt"

	"github.com/ivlev/dealbook/internal/domain"
)

// LedgerRefs holds the well-known rows the ledger depends on: the designated
// cash account and the payment purposes used to tag postings. Resolved once
// at startup; the rows themselves are seeded outside the core.
type LedgerRefs struct {
	CashAccountID       string
	PaymentPurposeID    string
	TransferPurposeID   string
	CollectionPurposeID string
	RepaymentPurposeID  string
	PayoutPurposeID     string
	DepositPurposeID    string
	WithdrawalPurposeID string
}

// RefNames are the lookup names used to resolve LedgerRefs.
type RefNames struct {
	CashAccount       string
	PaymentPurpose    string
	TransferPurpose   string
	CollectionPurpose string
	RepaymentPurpose  string
	PayoutPurpose     string
	DepositPurpose    string
	WithdrawalPurpose string
}

// ResolveLedgerRefs looks up the well-known account and purposes by name.
// A missing row fails with ErrConfigMissing so the service refuses to start
// half-configured.
func ResolveLedgerRefs(ctx context.Context, accounts AccountRepository, purposes PurposeRepository, names RefNames) (LedgerRefs, error) {
	var refs LedgerRefs

	cash, err := accounts.GetByName(ctx, names.CashAccount)
	if err != nil {
		return refs, fmt.Errorf("resolve cash account %q: %w", names.CashAccount, domain.ErrConfigMissing)
	}
	refs.CashAccountID = cash.ID

	for _, p := range []struct {
		name string
		dst  *string
	}{
		{names.PaymentPurpose, &refs.PaymentPurposeID},
		{names.TransferPurpose, &refs.TransferPurposeID},
		{names.CollectionPurpose, &refs.CollectionPurposeID},
		{names.RepaymentPurpose, &refs.RepaymentPurposeID},
		{names.PayoutPurpose, &refs.PayoutPurposeID},
		{names.DepositPurpose, &refs.DepositPurposeID},
		{names.WithdrawalPurpose, &refs.WithdrawalPurposeID},
	} {
		purpose, err := purposes.GetByName(ctx, p.name)
		if err != nil {
			return LedgerRefs{}, fmt.Errorf("resolve payment purpose %q: %w", p.name, domain.ErrConfigMissing)
		}
		*p.dst = purpose.ID
	}

	return refs, nil
}
