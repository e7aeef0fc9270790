package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

func newAccountUC(env *testEnv) *usecase.AccountUseCase {
	return usecase.NewAccountUseCase(env.accounts, env.subs, env.suppliers, env.investors, env.idGen)
}

func TestCreateAccount_StartsEmpty(t *testing.T) {
	env := newTestEnv()
	uc := newAccountUC(env)

	account, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name:        "office safe",
		AccountType: "cash",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if !account.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", account.Balance)
	}

	stored, err := env.accounts.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("expected account to be persisted: %v", err)
	}
	if stored.Name != "office safe" || stored.AccountType != "cash" {
		t.Fatalf("unexpected stored account %+v", stored)
	}
}

func TestCreateInvestor_StartsEmpty(t *testing.T) {
	env := newTestEnv()
	uc := newAccountUC(env)

	investor, err := uc.CreateInvestor(context.Background(), "ivan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if investor.Name != "ivan" || !investor.Balance.IsZero() {
		t.Fatalf("unexpected investor %+v", investor)
	}
}

func TestGetSupplierAccountBalance_MissingPairReadsZero(t *testing.T) {
	env := newTestEnv()
	uc := newAccountUC(env)

	balance, err := uc.GetSupplierAccountBalance(context.Background(), "sup-1", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero for a pair without postings, got %s", balance)
	}
}

func TestGetSupplierAccountBalance_ExistingPair(t *testing.T) {
	env := newTestEnv()
	uc := newAccountUC(env)
	ctx := context.Background()

	sub, err := env.subs.GetOrCreateForUpdate(ctx, nil, "sup-1", "acc-1")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := env.subs.UpdateBalance(ctx, nil, sub.ID, decimal.NewFromInt(250)); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	balance, err := uc.GetSupplierAccountBalance(ctx, "sup-1", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected 250, got %s", balance)
	}
}

func TestListAccounts_ClampsLimit(t *testing.T) {
	env := newTestEnv()
	uc := newAccountUC(env)

	var gotLimit int
	env.accounts.ListFunc = func(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
		gotLimit = limit
		return nil, nil
	}

	if _, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != usecase.DefaultListLimit {
		t.Fatalf("expected default limit %d, got %d", usecase.DefaultListLimit, gotLimit)
	}

	if _, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{Limit: 100000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != usecase.MaxListLimit {
		t.Fatalf("expected max limit %d, got %d", usecase.MaxListLimit, gotLimit)
	}
}

func TestSupplierLedger_ResolvesSupplierNames(t *testing.T) {
	env := newTestEnv()
	uc := newAccountUC(env)
	ctx := context.Background()

	env.addSupplier("sup-1", "br-1", "")
	sub, err := env.subs.GetOrCreateForUpdate(ctx, nil, "sup-1", "acc-cash")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := env.subs.UpdateBalance(ctx, nil, sub.ID, decimal.NewFromInt(75)); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rows, err := uc.SupplierLedger(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if row.SupplierID != "sup-1" || row.SupplierName != "supplier sup-1" || row.AccountID != "acc-cash" {
		t.Fatalf("unexpected row %+v", row)
	}
	if !row.Balance.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected balance 75, got %s", row.Balance)
	}
}
