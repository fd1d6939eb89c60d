package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/rebalance"
)

// HierarchyMarkdown renders the target allocation tree.
func HierarchyMarkdown(h *rebalance.Hierarchy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Target Allocation\n\n")
	fmt.Fprintln(&b, "| Category | Target | Effective |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for major := range h.Majors() {
		fmt.Fprintf(&b, "| **%s** | %s | %s |\n", major.Name(), ratio(major.Ratio()), ratio(major.Ratio()))
		for sub := range major.Subcategories() {
			key := rebalance.SubKey(major.Name(), sub.Name())
			name := sub.Name()
			if key == h.Liquidity() {
				name += " (liquidity)"
			}
			within := sub.Ratio()
			if !major.Ratio().IsZero() {
				within = sub.Ratio().Div(major.Ratio())
			}
			fmt.Fprintf(&b, "| &nbsp;&nbsp;%s | %s | %s |\n",
				name, ratio(within), ratio(sub.Ratio()))
		}
	}
	fmt.Fprintln(&b)
	if err := h.Validate(); err != nil {
		fmt.Fprintf(&b, "> ⚠️ %v\n\n", err)
	}
	return b.String()
}
