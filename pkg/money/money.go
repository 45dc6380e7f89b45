// Package money handles storefront prices as integer cents. The backend
// speaks float dollars, so conversion happens once at the API boundary.
package money

import (
	"fmt"
	"math"
)

// FromDollars converts a float dollar amount to cents, rounding half up.
func FromDollars(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// ToDollars converts cents back to the float dollar amount the backend expects.
func ToDollars(cents int64) float64 {
	return float64(cents) / 100
}

// ApplyRate returns rate*cents rounded half up, for percentage charges.
func ApplyRate(cents int64, rate float64) int64 {
	return int64(math.Round(float64(cents) * rate))
}

// Format renders cents as a display price, e.g. $42.00.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
