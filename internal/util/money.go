package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount as a whole-number FCFA string with
// space-separated thousands, e.g. "1 234 567 FCFA". Fractions are rounded
// half-up since FCFA has no minor unit.
func FormatAmount(amount decimal.Decimal) string {
	return groupDigits(amount.Round(0)) + " FCFA"
}

// FormatSigned prefixes the formatted amount with "+" or "-". The sign is
// decided by the caller, not by the amount's own polarity.
func FormatSigned(amount decimal.Decimal, positive bool) string {
	sign := "-"
	if positive {
		sign = "+"
	}
	return sign + FormatAmount(amount.Abs())
}

func groupDigits(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
