package utils

import (
	"strconv"
	"strings"
)

// FormatAmount renders a currency amount with thousands separators and two
// decimals, e.g. 1234567.5 -> "1,234,567.50". Log lines and API responses
// share this rendering.
func FormatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// RoundCents rounds a currency amount to 2-decimal precision.
func RoundCents(amount float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(amount, 'f', 2, 64), 64)
	return v
}
