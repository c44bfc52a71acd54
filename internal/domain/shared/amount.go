package shared

import "github.com/shopspring/decimal"

// Money columns are decimal(18,4), leaving 14 integer digits.
const (
	maxAmountExponent        = 18
	maxAmountCoefficientBits = 128
)

// MaxAmount is the exclusive upper bound of any stored amount
var MaxAmount = decimal.New(1, 14)

// AmountInRange reports whether |d| < MaxAmount. The exponent and coefficient
// size are checked before any comparison, so input such as 1e100000000 is
// rejected without being expanded.
func AmountInRange(d decimal.Decimal) bool {
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return false
	}
	if d.Coefficient().BitLen() > maxAmountCoefficientBits {
		return false
	}
	return d.Abs().LessThan(MaxAmount)
}
