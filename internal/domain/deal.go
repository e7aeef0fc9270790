package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deal is one client/supplier deal. The four debt buckets (supplier, client,
// bonus, investor) are derived from the fields below on every read; they are
// never stored.
type Deal struct {
	ID                 string
	ClientID           string
	SupplierID         string
	Amount             decimal.Decimal
	ClientPercentage   decimal.Decimal
	BonusPercentage    decimal.Decimal
	SupplierPercentage decimal.Decimal
	PaidAmount         decimal.Decimal
	ReturnedBySupplier decimal.Decimal
	ReturnedToClient   decimal.Decimal
	ReturnedBonus      decimal.Decimal
	ReturnedToInvestor decimal.Decimal
	Documents          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ReturnedAt         *time.Time
}

// RemainingAmount is the deal amount net of the client's percentage.
func (d *Deal) RemainingAmount() decimal.Decimal {
	return FloorRemainder(d.Amount, d.ClientPercentage)
}

// Bonus is the bonus percentage in currency units.
func (d *Deal) Bonus() decimal.Decimal {
	return FloorPercent(d.Amount, d.BonusPercentage)
}

// ClientFee is the client's percentage in currency units.
func (d *Deal) ClientFee() decimal.Decimal {
	return FloorPercent(d.Amount, d.ClientPercentage)
}

// SupplierFee is the supplier's percentage in currency units.
func (d *Deal) SupplierFee() decimal.Decimal {
	return FloorPercent(d.Amount, d.SupplierPercentage)
}

// Profit is the client fee net of the supplier fee and the bonus.
func (d *Deal) Profit() decimal.Decimal {
	return d.ClientFee().Sub(d.SupplierFee()).Sub(d.Bonus())
}

// SupplierDebt is what the supplier still owes back: the paid amount net of
// the supplier fee and prior supplier returns.
func (d *Deal) SupplierDebt() decimal.Decimal {
	return d.PaidAmount.Sub(d.SupplierFee()).Sub(d.ReturnedBySupplier)
}

// ClientDebt is the remaining amount not yet returned to the client.
func (d *Deal) ClientDebt() decimal.Decimal {
	return d.RemainingAmount().Sub(d.ReturnedToClient)
}

// ClientDebtPaid is the client debt computed from the paid amount rather
// than the full deal amount; repayments to the client are capped by it.
func (d *Deal) ClientDebtPaid() decimal.Decimal {
	return FloorRemainder(d.PaidAmount, d.ClientPercentage).Sub(d.ReturnedToClient)
}

// BonusDebt is the bonus not yet returned.
func (d *Deal) BonusDebt() decimal.Decimal {
	return d.Bonus().Sub(d.ReturnedBonus)
}

// InvestorDebt is the profit not yet recognized to investors.
func (d *Deal) InvestorDebt() decimal.Decimal {
	return d.Profit().Sub(d.ReturnedToInvestor)
}

// InvestorEligible reports whether the deal's profit may be recognized to an
// investor: bonuses and client debt fully settled and a positive profit.
func (d *Deal) InvestorEligible() bool {
	return d.BonusDebt().IsZero() && d.ClientDebt().IsZero() && d.Profit().IsPositive()
}

// Debts is the full set of derived debt values for a deal.
type Debts struct {
	SupplierDebt   decimal.Decimal
	ClientDebt     decimal.Decimal
	ClientDebtPaid decimal.Decimal
	BonusDebt      decimal.Decimal
	InvestorDebt   decimal.Decimal
	Profit         decimal.Decimal
}

// DeriveDebts computes all debt buckets from the current field values.
func (d *Deal) DeriveDebts() Debts {
	return Debts{
		SupplierDebt:   d.SupplierDebt(),
		ClientDebt:     d.ClientDebt(),
		ClientDebtPaid: d.ClientDebtPaid(),
		BonusDebt:      d.BonusDebt(),
		InvestorDebt:   d.InvestorDebt(),
		Profit:         d.Profit(),
	}
}

// ValidateEdit checks whether amount/percentage changes are compatible with
// the returns already recorded against the deal. The raw debt formulas are
// naturally negative before payment accrues, so only the returned counters
// can invalidate an edit: each must stay within its new ceiling. The new
// amount may not fall below what has already been paid.
func (d *Deal) ValidateEdit(amount, clientPct, bonusPct, supplierPct decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	for _, p := range []decimal.Decimal{clientPct, bonusPct, supplierPct} {
		if err := ValidatePercentage(p); err != nil {
			return err
		}
	}
	if amount.LessThan(d.PaidAmount) {
		return ErrOverpayment
	}

	candidate := *d
	candidate.Amount = amount
	candidate.ClientPercentage = clientPct
	candidate.BonusPercentage = bonusPct
	candidate.SupplierPercentage = supplierPct

	if d.ReturnedBonus.GreaterThan(candidate.Bonus()) ||
		d.ReturnedToClient.GreaterThan(candidate.RemainingAmount()) ||
		(d.ReturnedToClient.IsPositive() && candidate.ClientDebtPaid().IsNegative()) ||
		(d.ReturnedBySupplier.IsPositive() && candidate.SupplierDebt().IsNegative()) ||
		(d.ReturnedToInvestor.IsPositive() && candidate.InvestorDebt().IsNegative()) {
		return ErrDebtCeilingExceeded
	}

	return nil
}
