package common

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
)

// FormatMoney formats a float as a dollar amount with comma separators
func FormatMoney(v float64) string {
	cents := int64(math.Round(v * 100))
	return money.New(cents, money.USD).Display()
}

// FormatSignedMoney formats a dollar amount with +/- prefix
func FormatSignedMoney(v float64) string {
	if v >= 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatSignedPct formats a percentage with +/- prefix
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatQuantity trims trailing zeros from share counts ("10", "2.5").
func FormatQuantity(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*1e6)/1e6)
}
