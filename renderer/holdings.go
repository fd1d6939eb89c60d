package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/rebalance"
)

// HoldingsMarkdown renders the valued holdings list.
func HoldingsMarkdown(s *rebalance.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	fmt.Fprintln(&b, "| Name | Code | Kind | Category | Quantity | Unit Price | Market Value |")
	fmt.Fprintln(&b, "|:---|:---|:---:|:---|---:|---:|---:|")
	for vh := range s.Holdings() {
		price, value := vh.UnitPrice.String(), vh.MarketValue.String()
		if !vh.Priced {
			price, value = "?", "?"
		}
		category := vh.Category
		if vh.Orphaned {
			category += " (unknown)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			vh.Name, vh.Code, vh.Kind, category, vh.Quantity, price, value)
	}
	fmt.Fprintf(&b, "\nTotal value: **%s**\n\n", s.Total())
	warningsMarkdown(&b, s.Warnings())
	return b.String()
}
