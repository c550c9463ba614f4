package threshold

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders value as a dollar amount with thousands separators and
// a fixed number of decimals, e.g. 61234.5 with 2 decimals -> "$61,234.50".
func FormatPrice(value decimal.Decimal, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}

	fixed := value.Abs().StringFixed(int32(decimals))
	integer, fraction, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	if value.IsNegative() && strings.Trim(fixed, "0.") != "" {
		sb.WriteByte('-')
	}
	sb.WriteByte('$')
	sb.WriteString(groupThousands(integer))
	if fraction != "" {
		sb.WriteByte('.')
		sb.WriteString(fraction)
	}
	return sb.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var sb strings.Builder
	head := len(digits) % 3
	if head > 0 {
		sb.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}
