// Package money holds the shared money-math conventions: every
// accumulation in the engines is rounded to cents, and all "is this zero"
// decisions go through the same one-cent tolerance.
package money

import (
	"github.com/shopspring/decimal"
)

// Tolerance is the threshold under which a balance counts as settled.
// It absorbs cent-level residue left by rounded even splits.
var Tolerance = decimal.NewFromFloat(0.01)

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NearZero reports whether d is within Tolerance of zero.
func NearZero(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Tolerance)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
