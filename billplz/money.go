package billplz

import (
	"math"

	"github.com/shopspring/decimal"
)

// DescriptionLimit is the maximum bill description length Billplz accepts.
const DescriptionLimit = 200

// MinorUnits converts a ringgit amount to sen: round(amount * 100).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FormatAmount renders a ringgit amount with two decimals for receipts and
// notification emails.
func FormatAmount(amount float64) string {
	return decimal.NewFromInt(MinorUnits(amount)).Shift(-2).StringFixed(2)
}

// TruncateDescription cuts s to DescriptionLimit runes.
func TruncateDescription(s string) string {
	r := []rune(s)
	if len(r) <= DescriptionLimit {
		return s
	}
	return string(r[:DescriptionLimit])
}
