package pos

import (
	"fmt"
	"math"
	"strconv"
)

// maxPrice bounds a single unit price; cents at this magnitude stay far
// inside int64.
const maxPrice = 1e12

// ParsePrice converts a decimal price string to cents, rounding half-up at
// the second decimal. "9.99" -> 999.
func ParsePrice(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	// ParseFloat accepts "NaN", "Inf" and overflowing exponents; converting
	// those to int64 would produce garbage cents, so reject them here.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid price %q: not a finite number", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("invalid price %q: negative", s)
	}
	if f > maxPrice {
		return 0, fmt.Errorf("invalid price %q: too large", s)
	}
	return int64(f*100 + 0.5), nil
}

// FormatCents renders cents as a decimal string with two digits, 999 -> "9.99".
func FormatCents(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100.0, 'f', 2, 64)
}
