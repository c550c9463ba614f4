// Package threshold implements the price rounding rules: the default
// granularity table, rounding down to a threshold multiple and the display
// precision derived from the threshold itself.
package threshold

import (
	"strings"

	"github.com/shopspring/decimal"
)

type bracket struct {
	below decimal.Decimal
	step  decimal.Decimal
}

// brackets maps a price magnitude to its rounding granularity. Prices at or
// above the last bound use overflowRate of the price instead.
var brackets = []bracket{
	{decimal.NewFromInt(1), decimal.RequireFromString("0.05")},
	{decimal.NewFromInt(5), decimal.RequireFromString("0.1")},
	{decimal.NewFromInt(50), decimal.RequireFromString("0.5")},
	{decimal.NewFromInt(500), decimal.NewFromInt(5)},
	{decimal.NewFromInt(5000), decimal.NewFromInt(50)},
	{decimal.NewFromInt(50000), decimal.NewFromInt(500)},
}

var overflowRate = decimal.RequireFromString("0.005")

// Default returns the rounding granularity for a price
func Default(price decimal.Decimal) decimal.Decimal {
	for _, b := range brackets {
		if price.LessThan(b.below) {
			return b.step
		}
	}
	return price.Mul(overflowRate)
}

// RoundDown returns floor(price/threshold)*threshold. The result is exact
// and never greater than price. A non-positive threshold returns price as is.
func RoundDown(price, threshold decimal.Decimal) decimal.Decimal {
	if !threshold.IsPositive() {
		return price
	}

	quotient, remainder := price.QuoRem(threshold, 0)
	if remainder.IsNegative() {
		quotient = quotient.Sub(decimal.NewFromInt(1))
	}
	return quotient.Mul(threshold)
}

// DecimalPlaces counts the fractional digits of the threshold's canonical
// representation: 0.05 -> 2, 0.5 -> 1, 50 -> 0.
func DecimalPlaces(threshold decimal.Decimal) int {
	s := threshold.String()
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// Crossed reports whether the new rounded price moved at least one
// threshold unit away from the last announced one.
func Crossed(rounded, last, threshold decimal.Decimal) bool {
	return rounded.Sub(last).Abs().GreaterThanOrEqual(threshold)
}
