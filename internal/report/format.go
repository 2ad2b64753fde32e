package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every amount in the report.
const CurrencySymbol = "₹"

// FormatCurrency renders an amount as ₹1,545,000.00.
func FormatCurrency(d decimal.Decimal) string {
	return CurrencySymbol + FormatAmount(d, 2)
}

// FormatAmount renders d with thousands separators and the given number of
// decimal places.
func FormatAmount(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	return sign + groupThousands(intPart) + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
