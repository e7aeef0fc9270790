package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FloorPercent returns floor(amount * percent / 100).
// All percentage fees in the ledger round down to whole currency units.
func FloorPercent(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred).Floor()
}

// FloorRemainder returns floor(amount * (100 - percent) / 100), the part of
// an amount left after deducting a percentage fee.
func FloorRemainder(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred.Sub(percent)).Div(hundred).Floor()
}

// ValidateAmount checks that an operation amount is strictly positive.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidatePercentage checks that a percentage lies in [0, 100].
func ValidatePercentage(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return ErrInvalidPercentage
	}
	return nil
}
