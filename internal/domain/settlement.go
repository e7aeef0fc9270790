package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierDebtRepayment is the audit record of a supplier debt settlement.
// Branch-wide repayments carry a branch instead of a single deal.
type SupplierDebtRepayment struct {
	ID         string
	SupplierID string
	BranchID   string
	DealID     string
	CashFlowID string
	Amount     decimal.Decimal
	Comment    string
	CreatedAt  time.Time
}

// ClientDebtRepayment is the audit record of a client debt settlement,
// linked to the expense posting that moved the funds.
type ClientDebtRepayment struct {
	ID         string
	ClientID   string
	DealID     string
	CashFlowID string
	Amount     decimal.Decimal
	Comment    string
	CreatedAt  time.Time
}

// Investor operation types.
const (
	InvestorDeposit    = "deposit"
	InvestorWithdrawal = "withdrawal"
	InvestorProfit     = "profit"
)

// InvestorDebtOperation is the append-only audit record of an investor
// balance change.
type InvestorDebtOperation struct {
	ID            string
	InvestorID    string
	OperationType string
	Amount        decimal.Decimal
	CreatedAt     time.Time
}

// ValidInvestorOperation reports whether t is a known operation type.
func ValidInvestorOperation(t string) bool {
	switch t {
	case InvestorDeposit, InvestorWithdrawal, InvestorProfit:
		return true
	}
	return false
}

// DebtAllocation reports how much of a settlement amount one deal consumed
// during a FIFO allocation.
type DebtAllocation struct {
	DealID    string
	Amount    decimal.Decimal
	Remaining decimal.Decimal
}
