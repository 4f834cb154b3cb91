package valueobject

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places kept for any displayed or
// persisted monetary value.
const MoneyScale int32 = 2

var (
	// Hundred is the percent base
	Hundred = decimal.NewFromInt(100)
)

// RoundMoney rounds an amount to MoneyScale places, half away from zero.
// For the non-negative amounts this system deals in that is half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// MaxDecimal returns the larger of a and b
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// PercentOf returns base * percent / 100 without rounding
func PercentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(Hundred)
}

// RatioPercent returns part / whole * 100 without rounding.
// The caller guarantees whole is non-zero.
func RatioPercent(part, whole decimal.Decimal) decimal.Decimal {
	return part.Mul(Hundred).Div(whole)
}

// DecimalPtr returns a pointer to d
func DecimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// NullDecimalFromPtr converts an optional decimal to its nullable column form
func NullDecimalFromPtr(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// PtrFromNullDecimal converts a nullable column value to an optional decimal
func PtrFromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
