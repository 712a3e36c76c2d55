package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatCurrencyEGP formats an amount as Egyptian pounds.
// Example: 15000.5 -> "EGP 15,000.50"
func FormatCurrencyEGP(amount float64) string {
	rounded := math.Round(amount*100) / 100
	integer := int64(rounded)
	cents := int64(math.Round((rounded - float64(integer)) * 100))

	digits := fmt.Sprintf("%d", integer)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	if cents > 0 {
		return fmt.Sprintf("EGP %s.%02d", strings.Join(groups, ","), cents)
	}
	return fmt.Sprintf("EGP %s", strings.Join(groups, ","))
}
