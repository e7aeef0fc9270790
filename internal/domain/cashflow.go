package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation types of a payment purpose.
const (
	OperationIncome  = "income"
	OperationExpense = "expense"
)

// PaymentPurpose tags postings with a named income/expense category.
type PaymentPurpose struct {
	ID            string
	Name          string
	OperationType string
}

// SignedAmount applies the purpose's direction to a positive operation
// amount: income postings are positive, expense postings negative.
func (p *PaymentPurpose) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	if p.OperationType == OperationExpense {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// CashFlow is a single signed posting against an account and, optionally, a
// supplier sub-balance. Every balance change in the ledger is backed by one.
// Transfer legs carry a TransferID and are managed as a pair.
type CashFlow struct {
	ID                 string
	AccountID          string
	SupplierID         string
	Amount             decimal.Decimal
	PurposeID          string
	DealID             string
	TransferID         string
	ReturnedToInvestor decimal.Decimal
	Comment            string
	CreatedAt          time.Time
	CreatedBy          string
}

// Target returns the posting target the cash flow is attributed to.
func (cf *CashFlow) Target() PostingTarget {
	if cf.SupplierID != "" {
		return AccountSupplierPair(cf.AccountID, cf.SupplierID)
	}
	return AccountOnly(cf.AccountID)
}

// InvestorResidual is the part of an income posting not yet recognized to an
// investor.
func (cf *CashFlow) InvestorResidual() decimal.Decimal {
	return cf.Amount.Sub(cf.ReturnedToInvestor)
}
