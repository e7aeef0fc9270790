package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/infrastructure/metrics"
)

// SnapshotUseCase computes the balance sheet and stores monthly capital
// snapshots. All reads derive from live data; only MonthlyCapital rows are
// persisted.
type SnapshotUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	subRepo      SupplierAccountRepository
	supplierRepo SupplierRepository
	dealRepo     DealRepository
	capitalRepo  CapitalRepository
	idGen        IDGenerator
	refs         LedgerRefs
	cache        Cache
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewSnapshotUseCase creates a new SnapshotUseCase.
func NewSnapshotUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	subRepo SupplierAccountRepository,
	supplierRepo SupplierRepository,
	dealRepo DealRepository,
	capitalRepo CapitalRepository,
	idGen IDGenerator,
	refs LedgerRefs,
) *SnapshotUseCase {
	return &SnapshotUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		subRepo:      subRepo,
		supplierRepo: supplierRepo,
		dealRepo:     dealRepo,
		capitalRepo:  capitalRepo,
		idGen:        idGen,
		refs:         refs,
	}
}

// WithCache serves stored snapshots from a cache.
func (uc *SnapshotUseCase) WithCache(c Cache) *SnapshotUseCase {
	uc.cache = c
	return uc
}

// WithRetrier wraps mutating operations with a retrier.
func (uc *SnapshotUseCase) WithRetrier(r Retrier) *SnapshotUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables snapshot metrics.
func (uc *SnapshotUseCase) WithMetrics(m *metrics.Metrics) *SnapshotUseCase {
	uc.metrics = m
	return uc
}

func (uc *SnapshotUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

// ComputeCurrentCapital builds the balance sheet. Assets are fixed assets,
// inventory, outstanding supplier debt grouped by branch and cash holdings;
// liabilities are credit, short-term items, client debt, bonus debt and
// unrecognized investor profit. Client debt sums the remaining-amount debt
// of paid deals; bonus debt spans every deal. Deals and balance items are
// filtered to before when set; account balances are always current.
func (uc *SnapshotUseCase) ComputeCurrentCapital(ctx context.Context, before *time.Time) (*domain.BalanceSheet, error) {
	sheet := &domain.BalanceSheet{ComputedAt: time.Now().UTC()}

	var err error

	sheet.FixedAssets, err = uc.capitalRepo.SumBalanceItems(ctx, domain.BalanceItemEquipment, before)
	if err != nil {
		return nil, err
	}

	sheet.Inventory, err = uc.capitalRepo.SumBalanceItems(ctx, domain.BalanceItemInventory, before)
	if err != nil {
		return nil, err
	}

	credit, err := uc.capitalRepo.SumBalanceItems(ctx, domain.BalanceItemCredit, before)
	if err != nil {
		return nil, err
	}

	shortTerm, err := uc.capitalRepo.SumBalanceItems(ctx, domain.BalanceItemShortTerm, before)
	if err != nil {
		return nil, err
	}

	deals, err := uc.dealRepo.ListPaid(ctx, before)
	if err != nil {
		return nil, err
	}

	debtors, debtorsTotal, err := uc.supplierDebtByBranch(ctx, deals)
	if err != nil {
		return nil, err
	}
	sheet.DebtorsByBranch = debtors
	sheet.DebtorsTotal = debtorsTotal

	clientDebt := decimal.Zero
	investorDebt := decimal.Zero
	for _, d := range deals {
		if debt := d.ClientDebt(); debt.IsPositive() {
			clientDebt = clientDebt.Add(debt)
		}
		if debt := d.InvestorDebt(); debt.IsPositive() {
			investorDebt = investorDebt.Add(debt)
		}
	}

	// Bonuses accrue on creation, not on payment.
	allDeals, err := uc.dealRepo.ListAll(ctx, before)
	if err != nil {
		return nil, err
	}

	bonusDebt := decimal.Zero
	for _, d := range allDeals {
		if debt := d.BonusDebt(); debt.IsPositive() {
			bonusDebt = bonusDebt.Add(debt)
		}
	}

	sheet.CashLines, sheet.CashTotal, err = uc.cashHoldings(ctx)
	if err != nil {
		return nil, err
	}

	sheet.Assets = sheet.FixedAssets.Add(sheet.Inventory).Add(sheet.DebtorsTotal).Add(sheet.CashTotal)
	sheet.LiabilityLines = []domain.BalanceLine{
		{Name: domain.BalanceItemCredit, Amount: credit},
		{Name: domain.BalanceItemShortTerm, Amount: shortTerm},
		{Name: "client_debt", Amount: clientDebt},
		{Name: "bonus_debt", Amount: bonusDebt},
		{Name: "investor_debt", Amount: investorDebt},
	}
	sheet.LiabilitiesTotal = credit.Add(shortTerm).Add(clientDebt).Add(bonusDebt).Add(investorDebt)
	sheet.Capital = sheet.Assets.Sub(sheet.LiabilitiesTotal)

	return sheet, nil
}

// SnapshotMonth computes capital as of the end of the month and upserts the
// MonthlyCapital row. Re-running for the same month overwrites the stored
// value; exactly one row per (year, month) ever exists.
func (uc *SnapshotUseCase) SnapshotMonth(ctx context.Context, year, month int) (*domain.MonthlyCapital, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidAmount
	}

	start := time.Now()
	cutoff := endOfMonth(year, month)

	sheet, err := uc.ComputeCurrentCapital(ctx, &cutoff)
	if err != nil {
		return nil, err
	}

	mc := &domain.MonthlyCapital{
		ID:           uc.idGen.Generate(),
		Year:         year,
		Month:        month,
		Capital:      sheet.Capital,
		CalculatedAt: time.Now().UTC(),
	}

	err = uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.capitalRepo.UpsertMonthly(ctx, tx, mc); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, capitalCacheKey(year, month))
	}

	if uc.metrics != nil {
		uc.metrics.SnapshotsTaken.Inc()
		uc.metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	}

	return mc, nil
}

// GetCapitalSnapshot returns the stored snapshot for a month.
func (uc *SnapshotUseCase) GetCapitalSnapshot(ctx context.Context, year, month int) (*domain.MonthlyCapital, error) {
	key := capitalCacheKey(year, month)

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, key); err == nil && raw != nil {
			var mc domain.MonthlyCapital
			if err := json.Unmarshal(raw, &mc); err == nil {
				return &mc, nil
			}
		}
	}

	mc, err := uc.capitalRepo.GetMonthly(ctx, year, month)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(mc); err == nil {
			_ = uc.cache.Set(ctx, key, raw, CapitalCacheTTL)
		}
	}

	return mc, nil
}

// MonthlyReturnPercent is the month's summed deal profit over the average of
// this and the previous month's capital, as a percentage rounded to one
// decimal. Zero average capital yields zero instead of an error.
func (uc *SnapshotUseCase) MonthlyReturnPercent(ctx context.Context, year, month int) (decimal.Decimal, error) {
	if month < 1 || month > 12 {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	current, err := uc.capitalFor(ctx, year, month)
	if err != nil {
		return decimal.Zero, err
	}

	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}

	previous, err := uc.capitalFor(ctx, prevYear, prevMonth)
	if err != nil {
		return decimal.Zero, err
	}

	average := current.Add(previous).Div(decimal.NewFromInt(2))
	if average.IsZero() {
		return decimal.Zero, nil
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := endOfMonth(year, month)

	deals, err := uc.dealRepo.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	profit := decimal.Zero
	for _, d := range deals {
		profit = profit.Add(d.Profit())
	}

	return profit.Div(average).Mul(decimal.NewFromInt(100)).Round(1), nil
}

// SetBalanceItem upserts a manual balance-sheet input.
func (uc *SnapshotUseCase) SetBalanceItem(ctx context.Context, name string, amount decimal.Decimal) (*domain.BalanceItem, error) {
	if amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	item := &domain.BalanceItem{
		ID:        uc.idGen.Generate(),
		Name:      name,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.capitalRepo.UpsertBalanceItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// capitalFor reads the stored snapshot for a month, computing it from live
// data when none was stored.
func (uc *SnapshotUseCase) capitalFor(ctx context.Context, year, month int) (decimal.Decimal, error) {
	mc, err := uc.capitalRepo.GetMonthly(ctx, year, month)
	if err == nil {
		return mc.Capital, nil
	}

	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		return decimal.Zero, err
	}

	cutoff := endOfMonth(year, month)

	sheet, err := uc.ComputeCurrentCapital(ctx, &cutoff)
	if err != nil {
		return decimal.Zero, err
	}

	return sheet.Capital, nil
}

// supplierDebtByBranch sums positive supplier debt per branch. Suppliers
// without a branch are not debtors and do not count toward the total.
func (uc *SnapshotUseCase) supplierDebtByBranch(ctx context.Context, deals []*domain.Deal) ([]domain.BalanceLine, decimal.Decimal, error) {
	suppliers, err := uc.supplierRepo.List(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}

	branchOf := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		branchOf[s.ID] = s.BranchID
	}

	byBranch := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, d := range deals {
		debt := d.SupplierDebt()
		if !debt.IsPositive() {
			continue
		}

		branchID := branchOf[d.SupplierID]
		if branchID == "" {
			continue
		}

		byBranch[branchID] = byBranch[branchID].Add(debt)
		total = total.Add(debt)
	}

	branches, err := uc.supplierRepo.ListBranches(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var lines []domain.BalanceLine
	for _, b := range branches {
		if amount, ok := byBranch[b.ID]; ok {
			lines = append(lines, domain.BalanceLine{Name: b.Name, Amount: amount})
		}
	}

	return lines, total, nil
}

// cashHoldings sums the cash account's own balance plus supplier
// sub-balances held on every other account. Sub-balances on the cash account
// are already inside its balance and are not counted twice.
func (uc *SnapshotUseCase) cashHoldings(ctx context.Context) ([]domain.BalanceLine, decimal.Decimal, error) {
	accounts, err := uc.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var lines []domain.BalanceLine
	total := decimal.Zero
	for _, a := range accounts {
		if a.ID == uc.refs.CashAccountID {
			lines = append(lines, domain.BalanceLine{Name: a.Name, Amount: a.Balance})
			total = total.Add(a.Balance)

			continue
		}

		sum, err := uc.subRepo.SumByAccount(ctx, a.ID)
		if err != nil {
			return nil, decimal.Zero, err
		}

		if !sum.IsZero() {
			lines = append(lines, domain.BalanceLine{Name: a.Name, Amount: sum})
			total = total.Add(sum)
		}
	}

	return lines, total, nil
}

func capitalCacheKey(year, month int) string {
	return fmt.Sprintf("capital:%04d-%02d", year, month)
}

func endOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0).Add(-time.Nanosecond)
}
