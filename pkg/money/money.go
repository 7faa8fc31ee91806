package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Amounts are carried internally as int64 tiyin (minor units, 1/100).
// The decimal representation only exists at the API boundary.

var (
	// ErrNegative is returned for amounts below zero
	ErrNegative = errors.New("amount must not be negative")
	// ErrPrecision is returned for amounts with more than 2 decimal places
	ErrPrecision = errors.New("amount must have at most 2 decimal places")
)

var hundred = decimal.NewFromInt(100)

// FromDecimal converts a boundary decimal into tiyin.
// Rejects negative amounts and amounts finer than 2 decimal places.
func FromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrNegative
	}
	scaled := d.Mul(hundred)
	if !scaled.IsInteger() {
		return 0, ErrPrecision
	}
	return scaled.IntPart(), nil
}

// Parse converts a decimal string (e.g. "100000.50") into tiyin.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return FromDecimal(d)
}

// ToDecimal converts tiyin into a 2-dp decimal for API responses.
func ToDecimal(tiyin int64) decimal.Decimal {
	return decimal.New(tiyin, -2)
}

// Format renders tiyin as a fixed 2-dp decimal string.
func Format(tiyin int64) string {
	return ToDecimal(tiyin).StringFixed(2)
}
