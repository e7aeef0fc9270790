package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank, card or cash account holding a balance.
// The balance is a materialized cache of the posting log: it is mutated only
// through postings, never directly.
type Account struct {
	ID          string
	Name        string
	AccountType string
	Balance     decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SupplierAccount is a supplier's sub-balance within one account. A row is
// created lazily on the first posting that touches the (supplier, account)
// pair and is mutated in lock-step with the account.
type SupplierAccount struct {
	ID         string
	SupplierID string
	AccountID  string
	Balance    decimal.Decimal
}

// PostingTarget identifies where a posting lands: an account alone, or a
// supplier's sub-balance within an account. Funds checks read the supplier
// sub-balance when a supplier is present, the account balance otherwise.
type PostingTarget struct {
	AccountID  string
	SupplierID string
}

// AccountOnly targets an account without a supplier sub-balance.
func AccountOnly(accountID string) PostingTarget {
	return PostingTarget{AccountID: accountID}
}

// AccountSupplierPair targets a supplier's sub-balance within an account.
func AccountSupplierPair(accountID, supplierID string) PostingTarget {
	return PostingTarget{AccountID: accountID, SupplierID: supplierID}
}

// HasSupplier reports whether the target includes a supplier sub-balance.
func (t PostingTarget) HasSupplier() bool {
	return t.SupplierID != ""
}

// Branch groups suppliers; branch-wide debt repayment and the balance-sheet
// debtor aggregation operate per branch.
type Branch struct {
	ID   string
	Name string
}

// Supplier represents a supplier. Payments for a deal land on the supplier's
// default account.
type Supplier struct {
	ID               string
	Name             string
	BranchID         string
	CostPercentage   decimal.Decimal
	DefaultAccountID string
	CreatedAt        time.Time
}

// Client represents a client party on deals.
type Client struct {
	ID         string
	Name       string
	Percentage decimal.Decimal
	Comment    string
}

// Investor is a capital contributor. The balance grows on deposits and
// recognized profit and shrinks on withdrawals.
type Investor struct {
	ID        string
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
}
