package enums

import "fmt"

// PriceBand is a storefront price filter bucket. Bounds are in cents;
// Max < 0 means unbounded.
type PriceBand string

const (
	PriceBandAll      PriceBand = ""
	PriceBandUnder50  PriceBand = "0-50"
	PriceBand50To100  PriceBand = "50-100"
	PriceBand100To200 PriceBand = "100-200"
	PriceBandOver200  PriceBand = "200+"
)

var validPriceBands = []PriceBand{
	PriceBandAll,
	PriceBandUnder50,
	PriceBand50To100,
	PriceBand100To200,
	PriceBandOver200,
}

// String implements fmt.Stringer.
func (p PriceBand) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PriceBand.
func (p PriceBand) IsValid() bool {
	for _, candidate := range validPriceBands {
		if candidate == p {
			return true
		}
	}
	return false
}

// Bounds returns the band's price limits in cents. The minimum is exclusive
// and the maximum inclusive; a negative maximum means unbounded.
func (p PriceBand) Bounds() (min, max int64) {
	switch p {
	case PriceBandUnder50:
		return -1, 5000
	case PriceBand50To100:
		return 5000, 10000
	case PriceBand100To200:
		return 10000, 20000
	case PriceBandOver200:
		return 20000, -1
	default:
		return -1, -1
	}
}

// Contains reports whether the given price in cents falls into the band.
func (p PriceBand) Contains(cents int64) bool {
	if !p.IsValid() {
		return false
	}
	min, max := p.Bounds()
	if cents <= min {
		return false
	}
	return max < 0 || cents <= max
}

// ParsePriceBand converts raw input into a PriceBand.
func ParsePriceBand(value string) (PriceBand, error) {
	for _, candidate := range validPriceBands {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price band %q", value)
}
