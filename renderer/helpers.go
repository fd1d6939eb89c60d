// Package renderer turns engine reports into markdown documents.
//
// Numbers are handled using the exact decimal types (Money, Quantity,
// Percent) so that they already contain basic renderers (SignedString
// etc.)
package renderer

import (
	"github.com/shopspring/decimal"

	"github.com/etnz/rebalance"
)

// ratio formats a fraction (0.40) as a percentage ("40.00%").
func ratio(d decimal.Decimal) string {
	return rebalance.Percent(d.InexactFloat64() * 100).String()
}

// signedRatio formats a fraction with an explicit sign, "-" when zero.
func signedRatio(d decimal.Decimal) string {
	return rebalance.Percent(d.InexactFloat64() * 100).SignedString()
}

// marker flags a deviation band for quick scanning in the tables.
func marker(b rebalance.Band) string {
	switch b {
	case rebalance.BandSevere:
		return "🔴"
	case rebalance.BandNotable:
		return "🟡"
	default:
		return " "
	}
}
