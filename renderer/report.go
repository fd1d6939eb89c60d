package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/rebalance"
)

// ReportMarkdown renders the full portfolio report: valuation, deviation
// tables and the rebalancing plan.
func ReportMarkdown(r *rebalance.Report) string {
	var b strings.Builder

	owner := r.Owner
	if owner == "" {
		owner = "Portfolio"
	}
	fmt.Fprintf(&b, "# %s on %s\n\n", owner, r.Timestamp.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total value: **%s**\n\n", r.Total)
	if !r.Valid {
		fmt.Fprintf(&b, "> ⚠️ target allocation is invalid: %s\n\n", r.Invalid)
	}

	fmt.Fprintf(&b, "## Major Categories\n\n")
	deviationTable(&b, r.Deviations.Majors)

	fmt.Fprintf(&b, "## Subcategories\n\n")
	deviationTable(&b, r.Deviations.Subcategories)

	planMarkdown(&b, r.Plan)
	warningsMarkdown(&b, r.Warnings)

	return b.String()
}

func deviationTable(b *strings.Builder, rows []rebalance.DeviationRow) {
	fmt.Fprintln(b, "| | Category | Target | Actual | Target Value | Actual Value | Deviation | Dev % |")
	fmt.Fprintln(b, "|:---:|:---|---:|---:|---:|---:|---:|---:|")
	for _, row := range rows {
		devPct := signedRatio(row.DeviationPct)
		if row.Unfunded {
			devPct = "unfunded"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			marker(row.Band),
			row.Key,
			ratio(row.TargetRatio),
			ratio(row.ActualRatio),
			row.TargetValue,
			row.ActualValue,
			row.DeviationValue.SignedString(),
			devPct,
		)
	}
	fmt.Fprintln(b)
}

func planMarkdown(b *strings.Builder, plan *rebalance.RebalancePlan) {
	fmt.Fprintf(b, "## Rebalancing Plan\n\n")
	if len(plan.Actions) == 0 {
		fmt.Fprintf(b, "All categories are within the %s tolerance. Nothing to do.\n\n", ratio(plan.Threshold))
		return
	}

	for _, action := range plan.Actions {
		fmt.Fprintf(b, "### %s (%s off target)\n\n", action.Key, signedRatio(action.DeviationPct))
		fmt.Fprintf(b, "Move %s into this category.\n\n", action.Correction.SignedString())
		if action.Advisory != "" {
			fmt.Fprintf(b, "> %s\n\n", action.Advisory)
			continue
		}
		fmt.Fprintln(b, "| Holding | Action | Quantity | Unit Price | Value |")
		fmt.Fprintln(b, "|:---|:---:|---:|---:|---:|")
		for _, s := range action.Suggestions {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
				s.Holding, s.Direction, s.Quantity, s.UnitPrice, s.ImpliedValue)
		}
		fmt.Fprintln(b)
	}

	if len(plan.MajorDrift) > 0 {
		fmt.Fprintf(b, "### Drift per Major Category\n\n")
		fmt.Fprintln(b, "| Major | Drift |")
		fmt.Fprintln(b, "|:---|---:|")
		for _, d := range plan.MajorDrift {
			fmt.Fprintf(b, "| %s | %s |\n", d.Major, signedRatio(d.Drift))
		}
		fmt.Fprintln(b)
	}
}

func warningsMarkdown(b *strings.Builder, warnings []rebalance.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(b, "## Warnings\n\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "- ⚠️ %s\n", w)
	}
	fmt.Fprintln(b)
}
