package rebalance

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ActionThreshold is the deviation magnitude from which a subcategory
// requires action: 20% of its target value.
var ActionThreshold = decimal.NewFromFloat(0.20)

// Direction of a suggested trade.
type Direction int

const (
	Buy Direction = iota
	Sell
)

func (d Direction) String() string {
	if d == Buy {
		return "buy"
	}
	return "sell"
}

func (d Direction) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// Suggestion is one concrete trade proposal for one holding. Quantity is
// always a positive magnitude; Direction carries the sign.
type Suggestion struct {
	Holding      string    `json:"holding"`
	Direction    Direction `json:"direction"`
	Quantity     Quantity  `json:"quantity"`
	UnitPrice    Money     `json:"unitPrice"`
	ImpliedValue Money     `json:"impliedValue"`
}

// CategoryAction groups the suggestions correcting one out-of-tolerance
// subcategory.
type CategoryAction struct {
	// Key is the fully-qualified subcategory key.
	Key string `json:"key"`
	// DeviationPct is the detected deviation (actual vs target).
	DeviationPct decimal.Decimal `json:"deviationPct"`
	// Correction is the signed value to move into (positive) or out of
	// (negative) the subcategory.
	Correction Money `json:"correction"`
	// Suggestions are the per-holding trades, empty when the subcategory
	// holds nothing to scale against.
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	// Advisory is set instead of suggestions for a degenerate (empty)
	// subcategory.
	Advisory string `json:"advisory,omitempty"`
}

// MajorDrift is the coarse per-major signal: the summed deviation
// magnitudes of its actionable subcategories. Informational only.
type MajorDrift struct {
	Major string          `json:"major"`
	Drift decimal.Decimal `json:"drift"`
}

// RebalancePlan is the full set of threshold-gated corrections for one
// snapshot.
type RebalancePlan struct {
	Currency string `json:"currency"`
	// Threshold is the deviation magnitude that gated the actions.
	Threshold decimal.Decimal  `json:"threshold"`
	Actions   []CategoryAction `json:"actions,omitempty"`
	// MajorDrift aggregates actionable deviations per major category, in
	// declaration order.
	MajorDrift []MajorDrift `json:"majorDrift,omitempty"`
	Warnings   []Warning    `json:"warnings,omitempty"`
}

// Advise turns the detected deviations into concrete per-holding trade
// suggestions.
//
// A subcategory is actionable when its deviation magnitude reaches
// ActionThreshold, unless it is the hierarchy's designated liquidity
// bucket, which is the rebalancing slack variable and never acted upon.
// The correction of an actionable subcategory is distributed over its
// holdings proportionally to their current share, so larger positions
// absorb proportionally larger corrections, then rounded per instrument
// kind. Rounding always stays on the conservative side: a buy is never
// larger than computed, a sell never exceeds what is computed nor what
// is held.
func Advise(s *Snapshot, report *DeviationReport) *RebalancePlan {
	plan := &RebalancePlan{
		Currency:  s.Currency(),
		Threshold: ActionThreshold,
	}
	drift := make(map[string]decimal.Decimal)

	for _, row := range report.Subcategories {
		if row.Key == s.Hierarchy().Liquidity() {
			continue
		}
		if row.DeviationPct.Abs().LessThan(ActionThreshold) {
			continue
		}

		action := CategoryAction{
			Key:          row.Key,
			DeviationPct: row.DeviationPct,
			// The correction moves value in the opposite direction of the
			// deviation: underweight buys, overweight sells.
			Correction: row.DeviationValue.Neg(),
		}
		major, _, _ := SplitKey(row.Key)
		drift[major] = drift[major].Add(row.DeviationPct.Abs())

		categoryTotal := row.ActualValue
		if categoryTotal.IsZero() {
			action.Advisory = "no holdings in this subcategory; add one before it can be rebalanced"
			plan.Warnings = append(plan.Warnings, Warning{
				Kind:   DegenerateCategory,
				Key:    row.Key,
				Detail: "nothing to scale a quantity suggestion against",
			})
			plan.Actions = append(plan.Actions, action)
			continue
		}

		for vh := range s.InCategory(row.Key) {
			if sug, ok := sizeTrade(vh, action.Correction, categoryTotal); ok {
				action.Suggestions = append(action.Suggestions, sug)
			}
		}
		plan.Actions = append(plan.Actions, action)
	}

	// Report drift in the hierarchy's major declaration order.
	for major := range s.Hierarchy().Majors() {
		if d, ok := drift[major.Name()]; ok {
			plan.MajorDrift = append(plan.MajorDrift, MajorDrift{Major: major.Name(), Drift: d})
		}
	}
	return plan
}

// sizeTrade computes the rounded trade for one holding's share of a
// subcategory correction. It returns false when no trade results: cash
// holdings, zero weights, and deltas rounded away to zero.
func sizeTrade(vh ValuedHolding, correction, categoryTotal Money) (Suggestion, bool) {
	if vh.Kind == Cash {
		// Value-only instrument, never a quantity suggestion.
		return Suggestion{}, false
	}

	weight := vh.MarketValue.DivPrice(categoryTotal)
	adjustment := correction.Mul(weight)

	// Unit value guard: a zero-quantity holding cannot be sized, the
	// sentinel of 1 keeps the arithmetic defined and the caps below
	// reduce any sell to nothing.
	unit := M(1, vh.MarketValue.Currency())
	if vh.Quantity.IsPositive() {
		unit = vh.MarketValue.Div(vh.Quantity)
	}
	raw := adjustment.DivPrice(unit)

	var delta Quantity
	switch vh.Kind {
	case LotTraded:
		lot := vh.Lot()
		delta = raw.TruncateToLot(lot)
		if delta.IsNegative() {
			// Never sell more than is held, in whole lots.
			held := vh.Quantity.TruncateToLot(lot)
			if delta.Abs().GreaterThan(held) {
				delta = held.Neg()
			}
		}
	case Continuous:
		delta = raw.Round(2)
		if delta.IsNegative() && delta.Abs().GreaterThan(vh.Quantity) {
			// Never sell more than is held, even when that leaves more
			// than two decimals.
			delta = vh.Quantity.Neg()
		}
	}
	if delta.IsZero() {
		return Suggestion{}, false
	}

	dir := Buy
	if delta.IsNegative() {
		dir = Sell
	}
	qty := delta.Abs()
	return Suggestion{
		Holding:      vh.Name,
		Direction:    dir,
		Quantity:     qty,
		UnitPrice:    unit,
		ImpliedValue: unit.Mul(qty),
	}, true
}
