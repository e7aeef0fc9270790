package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyTransfer moves funds between two posting targets. It is always backed
// by exactly two cash flow legs of equal absolute amount and opposite sign,
// created, edited and deleted as a unit.
type MoneyTransfer struct {
	ID                    string
	SourceAccountID       string
	SourceSupplierID      string
	DestinationAccountID  string
	DestinationSupplierID string
	Amount                decimal.Decimal
	Comment               string
	Completed             bool
	CreatedAt             time.Time
}

// Source returns the debited target.
func (t *MoneyTransfer) Source() PostingTarget {
	if t.SourceSupplierID != "" {
		return AccountSupplierPair(t.SourceAccountID, t.SourceSupplierID)
	}
	return AccountOnly(t.SourceAccountID)
}

// Destination returns the credited target.
func (t *MoneyTransfer) Destination() PostingTarget {
	if t.DestinationSupplierID != "" {
		return AccountSupplierPair(t.DestinationAccountID, t.DestinationSupplierID)
	}
	return AccountOnly(t.DestinationAccountID)
}

// Validate checks the transfer request.
func (t *MoneyTransfer) Validate() error {
	if t.SourceAccountID == t.DestinationAccountID && t.SourceSupplierID == t.DestinationSupplierID {
		return ErrSameTarget
	}
	return ValidateAmount(t.Amount)
}
