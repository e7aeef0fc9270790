package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

func TestResolveLedgerRefs(t *testing.T) {
	names := usecase.RefNames{
		CashAccount:       "cash",
		PaymentPurpose:    "payment",
		TransferPurpose:   "transfer",
		CollectionPurpose: "collection",
		RepaymentPurpose:  "repayment",
		PayoutPurpose:     "payout",
		DepositPurpose:    "deposit",
		WithdrawalPurpose: "withdrawal",
	}

	t.Run("all rows present", func(t *testing.T) {
		env := newTestEnv()

		refs, err := usecase.ResolveLedgerRefs(context.Background(), env.accounts, env.purposes, names)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if refs.CashAccountID != "acc-cash" {
			t.Errorf("cash account: got %q", refs.CashAccountID)
		}
		if refs.PaymentPurposeID != "purpose-payment" {
			t.Errorf("payment purpose: got %q", refs.PaymentPurposeID)
		}
		if refs.CollectionPurposeID != "purpose-collection" {
			t.Errorf("collection purpose: got %q", refs.CollectionPurposeID)
		}
	})

	t.Run("missing purpose fails fast", func(t *testing.T) {
		env := newTestEnv()

		missing := names
		missing.PayoutPurpose = "nonexistent"

		_, err := usecase.ResolveLedgerRefs(context.Background(), env.accounts, env.purposes, missing)
		if !errors.Is(err, domain.ErrConfigMissing) {
			t.Fatalf("expected ErrConfigMissing, got %v", err)
		}
	})

	t.Run("missing cash account fails fast", func(t *testing.T) {
		env := newTestEnv()

		missing := names
		missing.CashAccount = "nonexistent"

		_, err := usecase.ResolveLedgerRefs(context.Background(), env.accounts, env.purposes, missing)
		if !errors.Is(err, domain.ErrConfigMissing) {
			t.Fatalf("expected ErrConfigMissing, got %v", err)
		}
	})
}
