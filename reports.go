package rebalance

import (
	"context"
	"time"
)

// Report is the full structured output of one pipeline run: valuation,
// deviation analysis, rebalancing plan, hierarchy validation status and
// every warning collected along the way. It contains plain records so
// downstream rendering stays decoupled from the engine.
type Report struct {
	Owner     string    `json:"owner,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Currency  string    `json:"currency"`

	// Valid reports the hierarchy's validation status; Invalid carries
	// the diagnostic when it does not hold.
	Valid   bool   `json:"valid"`
	Invalid string `json:"invalid,omitempty"`

	Total      Money            `json:"total"`
	Holdings   []ValuedHolding  `json:"holdings,omitempty"`
	Deviations *DeviationReport `json:"deviations"`
	Plan       *RebalancePlan   `json:"plan"`
	// Warnings are the valuation warnings (price failures, orphans); the
	// deviation report and the plan carry their own.
	Warnings []Warning `json:"warnings,omitempty"`
}

// NewReport runs the whole pipeline over one owner's portfolio: value the
// holdings, analyze deviations, derive the rebalancing plan. The pipeline
// is a pure function of its inputs; running it twice over an unchanged
// portfolio yields identical deviations and suggestions.
func NewReport(ctx context.Context, owner string, holdings *Holdings, hierarchy *Hierarchy, prices PriceSource, currency string) *Report {
	snapshot := NewSnapshot(ctx, holdings, hierarchy, prices, currency)
	deviations := Analyze(snapshot)
	plan := Advise(snapshot, deviations)

	report := &Report{
		Owner:      owner,
		Timestamp:  time.Now(),
		Currency:   currency,
		Valid:      true,
		Total:      snapshot.Total(),
		Deviations: deviations,
		Plan:       plan,
		Warnings:   snapshot.Warnings(),
	}
	if err := hierarchy.Validate(); err != nil {
		report.Valid = false
		report.Invalid = err.Error()
	}
	for vh := range snapshot.Holdings() {
		report.Holdings = append(report.Holdings, vh)
	}
	return report
}
