package utils

import (
	"fmt"
	"strings"
)

// Monetary amounts are carried as exact decimal strings (two fraction
// digits) and computed on integer cents, never on floats.

// ParseAmountCents converts a decimal amount string such as "1500000" or
// "1500000.50" into cents.
func ParseAmountCents(amount string) (int64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole = s[:i]
		frac = s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", amount)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	var cents int64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount %q", amount)
		}
		cents = cents*10 + int64(r-'0')
	}
	if negative {
		cents = -cents
	}
	return cents, nil
}

// CentsToAmount renders cents back into a decimal string with two fraction
// digits, e.g. 7500000 -> "75000.00".
func CentsToAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// PercentOfCents returns pct% of the given cents, rounded half up.
func PercentOfCents(cents int64, pct int) int64 {
	v := cents * int64(pct)
	return (v + 50) / 100
}

// FormatCOP renders a decimal amount string for display in Colombian pesos,
// e.g. "75000.00" -> "$ 75.000".
func FormatCOP(amount string) string {
	cents, err := ParseAmountCents(amount)
	if err != nil {
		return amount
	}
	whole := cents / 100
	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	b.WriteString("$ ")
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
		if len(digits) > pre {
			b.WriteString(".")
		}
	}
	for i := pre; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteString(".")
		}
	}
	return b.String()
}
