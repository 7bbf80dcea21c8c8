package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places amounts are normalized to.
const MoneyPlaces = 2

// MaxCents bounds any single stored amount. Sums over many rows stay well
// inside int64.
const MaxCents int64 = 1_000_000_000_000_000

// MaxAmount is MaxCents as a decimal amount (10,000,000,000,000.00).
var MaxAmount = decimal.New(MaxCents, -MoneyPlaces)

// ErrAmountOutOfRange is returned when an amount does not fit in MaxCents.
var ErrAmountOutOfRange = errors.New("amount out of range")

// RoundMoney normalizes an amount to cents, rounding half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ToCents converts an amount to integer minor units.
// The amount is rounded to cents first. Amounts beyond ±MaxAmount are rejected.
func ToCents(d decimal.Decimal) (int64, error) {
	rounded := RoundMoney(d)
	if rounded.Abs().GreaterThan(MaxAmount) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOutOfRange, rounded.String())
	}
	return rounded.Shift(MoneyPlaces).IntPart(), nil
}

// FromCents converts integer minor units back to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -MoneyPlaces)
}

// FormatMoney renders an amount with exactly two decimal places.
// This is the only place balances are rounded for display.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}
