package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseDiscountPercent extracts a percentage from a free-form discount label
// such as "20% OFF" or "FLAT 15%". Every character that is not a digit or a
// decimal point is stripped before parsing. A label that yields no valid
// positive number means zero discount; malformed input is never an error.
// The result is clamped to [0, 100].
func ParseDiscountPercent(label string) decimal.Decimal {
	var b strings.Builder
	for _, r := range label {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	pct, err := decimal.NewFromString(b.String())
	if err != nil || pct.Sign() <= 0 {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
