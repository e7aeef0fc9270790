package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase/mocks"
)

func seedBalanceSheet(t *testing.T, env *testEnv) {
	t.Helper()

	ctx := context.Background()

	branch := &domain.Branch{ID: "branch-1", Name: "north"}
	env.suppliers.AddBranch(branch)
	env.addSupplier("sup-1", "branch-1", "")

	// supplier_debt 5000, client_debt 8000, bonus_debt 500, investor_debt 500
	env.addDeal("deal-1", "sup-1", 10000, 6000, "20", "5", "10", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

	cash, _ := env.accounts.GetByID(ctx, "acc-cash")
	cash.Balance = decimal.NewFromInt(2000)

	// Balance items carry a fixed date so month snapshots stay reproducible.
	seeded := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, item := range []*domain.BalanceItem{
		{ID: "item-equipment", Name: domain.BalanceItemEquipment, Amount: decimal.NewFromInt(10000), CreatedAt: seeded},
		{ID: "item-credit", Name: domain.BalanceItemCredit, Amount: decimal.NewFromInt(3000), CreatedAt: seeded},
	} {
		if err := env.capital.UpsertBalanceItem(ctx, item); err != nil {
			t.Fatalf("seed %s: %v", item.Name, err)
		}
	}
}

func TestSnapshotUseCase_ComputeCurrentCapital(t *testing.T) {
	env := newTestEnv()
	seedBalanceSheet(t, env)
	uc := env.snapshotUC()

	sheet, err := uc.ComputeCurrentCapital(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// assets = 10000 + 5000 + 2000, liabilities = 3000 + 8000 + 500 + 500
	if !sheet.Assets.Equal(decimal.NewFromInt(17000)) {
		t.Errorf("assets: got %s, want 17000", sheet.Assets)
	}
	if !sheet.LiabilitiesTotal.Equal(decimal.NewFromInt(12000)) {
		t.Errorf("liabilities: got %s, want 12000", sheet.LiabilitiesTotal)
	}
	if !sheet.Capital.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("capital: got %s, want 5000", sheet.Capital)
	}

	if len(sheet.DebtorsByBranch) != 1 || sheet.DebtorsByBranch[0].Name != "north" {
		t.Errorf("debtor lines: %+v", sheet.DebtorsByBranch)
	}
	if !sheet.DebtorsTotal.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("debtors total: got %s, want 5000", sheet.DebtorsTotal)
	}
}

func TestSnapshotUseCase_BranchlessSupplierIsNotADebtor(t *testing.T) {
	env := newTestEnv()
	seedBalanceSheet(t, env)

	env.addSupplier("sup-2", "", "")
	env.addDeal("deal-2", "sup-2", 10000, 6000, "20", "5", "10", time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC))

	sheet, err := env.snapshotUC().ComputeCurrentCapital(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sheet.DebtorsByBranch) != 1 || sheet.DebtorsByBranch[0].Name != "north" {
		t.Errorf("debtor lines: %+v", sheet.DebtorsByBranch)
	}
	if !sheet.DebtorsTotal.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("debtors total: got %s, want 5000", sheet.DebtorsTotal)
	}
}

func TestSnapshotUseCase_BonusAccruesBeforePayment(t *testing.T) {
	env := newTestEnv()
	seedBalanceSheet(t, env)

	// bonus 300 on a deal with no payments yet
	env.addDeal("deal-2", "sup-1", 6000, 0, "20", "5", "10", time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC))

	sheet, err := env.snapshotUC().ComputeCurrentCapital(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, line := range sheet.LiabilityLines {
		if line.Name == "bonus_debt" {
			if !line.Amount.Equal(decimal.NewFromInt(800)) {
				t.Errorf("bonus debt: got %s, want 800", line.Amount)
			}
			return
		}
	}
	t.Error("bonus_debt line missing")
}

func TestSnapshotUseCase_SnapshotMonthIdempotent(t *testing.T) {
	env := newTestEnv()
	seedBalanceSheet(t, env)
	uc := env.snapshotUC()

	first, err := uc.SnapshotMonth(context.Background(), 2026, 3)
	if err != nil {
		t.Fatalf("first snapshot: %v", err)
	}

	second, err := uc.SnapshotMonth(context.Background(), 2026, 3)
	if err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	if !first.Capital.Equal(second.Capital) {
		t.Errorf("capital diverged: %s vs %s", first.Capital, second.Capital)
	}
	if env.capital.MonthlyCount() != 1 {
		t.Errorf("snapshot rows: got %d, want 1", env.capital.MonthlyCount())
	}

	stored, err := env.capital.GetMonthly(context.Background(), 2026, 3)
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if !stored.Capital.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("stored capital: got %s, want 5000", stored.Capital)
	}
}

func TestSnapshotUseCase_SnapshotMonthCutoff(t *testing.T) {
	env := newTestEnv()
	seedBalanceSheet(t, env)

	// An item recorded after March stays out of the March snapshot.
	err := env.capital.UpsertBalanceItem(context.Background(), &domain.BalanceItem{
		ID:        "item-inventory",
		Name:      domain.BalanceItemInventory,
		Amount:    decimal.NewFromInt(999),
		CreatedAt: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	uc := env.snapshotUC()

	mc, err := uc.SnapshotMonth(context.Background(), 2026, 3)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !mc.Capital.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("march capital: got %s, want 5000", mc.Capital)
	}

	sheet, err := uc.ComputeCurrentCapital(context.Background(), nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !sheet.Capital.Equal(decimal.NewFromInt(5999)) {
		t.Errorf("uncapped capital: got %s, want 5999", sheet.Capital)
	}
}

func TestSnapshotUseCase_SetBalanceItem(t *testing.T) {
	env := newTestEnv()
	uc := env.snapshotUC()

	if _, err := uc.SetBalanceItem(context.Background(), domain.BalanceItemCredit, decimal.NewFromInt(-1)); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	item, err := uc.SetBalanceItem(context.Background(), domain.BalanceItemCredit, decimal.NewFromInt(750))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID == "" || item.CreatedAt.IsZero() {
		t.Errorf("item not stamped: %+v", item)
	}

	sum, err := env.capital.SumBalanceItems(context.Background(), domain.BalanceItemCredit, nil)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if !sum.Equal(decimal.NewFromInt(750)) {
		t.Errorf("stored amount: got %s, want 750", sum)
	}
}

func TestSnapshotUseCase_MonthlyReturnPercent(t *testing.T) {
	t.Run("zero average capital yields zero", func(t *testing.T) {
		env := newTestEnv()
		uc := env.snapshotUC()

		percent, err := uc.MonthlyReturnPercent(context.Background(), 2026, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !percent.IsZero() {
			t.Errorf("percent: got %s, want 0", percent)
		}
	})

	t.Run("profit over average capital", func(t *testing.T) {
		env := newTestEnv()
		ctx := context.Background()

		for _, m := range []int{2, 3} {
			err := env.capital.UpsertMonthly(ctx, nil, &domain.MonthlyCapital{
				ID:      "mc-" + string(rune('0'+m)),
				Year:    2026,
				Month:   m,
				Capital: decimal.NewFromInt(10000),
			})
			if err != nil {
				t.Fatalf("seed capital: %v", err)
			}
		}

		// profit = 500 for the deal created inside March
		env.addDeal("deal-1", "sup-1", 10000, 0, "20", "5", "10", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

		percent, err := env.snapshotUC().MonthlyReturnPercent(ctx, 2026, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !percent.Equal(decimal.NewFromInt(5)) {
			t.Errorf("percent: got %s, want 5", percent)
		}
	})
}

func TestSnapshotUseCase_GetCapitalSnapshotCaching(t *testing.T) {
	env := newTestEnv()
	seedBalanceSheet(t, env)

	uc := env.snapshotUC().WithCache(mocks.NewMockCache())

	if _, err := uc.SnapshotMonth(context.Background(), 2026, 3); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	first, err := uc.GetCapitalSnapshot(context.Background(), 2026, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Second read comes from cache even if the repo row disappears.
	env.capital.GetMonthlyFunc = func(ctx context.Context, year, month int) (*domain.MonthlyCapital, error) {
		return nil, domain.ErrSnapshotNotFound
	}

	second, err := uc.GetCapitalSnapshot(context.Background(), 2026, 3)
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if !first.Capital.Equal(second.Capital) {
		t.Errorf("cached capital diverged: %s vs %s", first.Capital, second.Capital)
	}
}
