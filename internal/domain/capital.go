package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Well-known balance item names. Balance items are manual balance-sheet
// inputs maintained outside the posting log.
const (
	BalanceItemEquipment = "equipment"
	BalanceItemCredit    = "credit"
	BalanceItemShortTerm = "short_term"
	BalanceItemInventory = "inventory"
)

// BalanceItem is a named manual input to the balance sheet.
type BalanceItem struct {
	ID        string
	Name      string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// MonthlyCapital is the stored snapshot of aggregate capital for one month.
// Re-running the snapshot for the same month overwrites the row.
type MonthlyCapital struct {
	ID           string
	Year         int
	Month        int
	Capital      decimal.Decimal
	CalculatedAt time.Time
}

// BalanceLine is one named amount on the balance sheet.
type BalanceLine struct {
	Name   string
	Amount decimal.Decimal
}

// BalanceSheet is the point-in-time capital report: assets net of
// liabilities with their line items.
type BalanceSheet struct {
	FixedAssets      decimal.Decimal
	Inventory        decimal.Decimal
	DebtorsByBranch  []BalanceLine
	DebtorsTotal     decimal.Decimal
	CashTotal        decimal.Decimal
	CashLines        []BalanceLine
	Assets           decimal.Decimal
	LiabilityLines   []BalanceLine
	LiabilitiesTotal decimal.Decimal
	Capital          decimal.Decimal
	ComputedAt       time.Time
}
