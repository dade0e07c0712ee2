package shared

import "github.com/shopspring/decimal"

func init() {
	// Money is exchanged as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// MoneyOrZero dereferences an optional amount, treating nil and negatives as zero.
func MoneyOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil || v.IsNegative() {
		return decimal.Zero
	}
	return *v
}
