package rebalance

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Band is the informational severity of a deviation, for presentation
// only. It never gates any computation.
type Band int

const (
	// BandNone: deviation magnitude below 10%.
	BandNone Band = iota
	// BandNotable: deviation magnitude in [10%, 20%).
	BandNotable
	// BandSevere: deviation magnitude of 20% or more.
	BandSevere
)

func (b Band) String() string {
	switch b {
	case BandNone:
		return "none"
	case BandNotable:
		return "notable"
	case BandSevere:
		return "severe"
	default:
		return "unknown"
	}
}

func (b Band) MarshalJSON() ([]byte, error) { return json.Marshal(b.String()) }

var (
	bandNotableAt = decimal.NewFromFloat(0.10)
	bandSevereAt  = decimal.NewFromFloat(0.20)
)

func bandOf(deviationPct decimal.Decimal) Band {
	mag := deviationPct.Abs()
	switch {
	case mag.GreaterThanOrEqual(bandSevereAt):
		return BandSevere
	case mag.GreaterThanOrEqual(bandNotableAt):
		return BandNotable
	default:
		return BandNone
	}
}

// DeviationRow compares the actual and target allocation of one category
// (major or subcategory).
type DeviationRow struct {
	// Key is the major name or the fully-qualified subcategory key.
	Key string `json:"key"`
	// TargetRatio is the configured fraction of the total value.
	TargetRatio decimal.Decimal `json:"targetRatio"`
	// ActualRatio is the current fraction of the total value, zero when
	// the portfolio is worthless.
	ActualRatio decimal.Decimal `json:"actualRatio"`
	// TargetValue is Total times TargetRatio.
	TargetValue Money `json:"targetValue"`
	// ActualValue is the aggregated market value mapped to the key, zero
	// when no holding maps to it: a zero-holding category is itself a
	// deviation signal, not an omission.
	ActualValue Money `json:"actualValue"`
	// DeviationValue is ActualValue minus TargetValue: positive means
	// overweight, negative underweight.
	DeviationValue Money `json:"deviationValue"`
	// DeviationPct is DeviationValue over TargetValue, and zero (never
	// NaN or infinite) when the target value is zero.
	DeviationPct decimal.Decimal `json:"deviationPct"`
	// Unfunded flags a zero target value, where DeviationPct is zero by
	// convention.
	Unfunded bool `json:"unfunded,omitempty"`
	// Band is the informational severity of the deviation.
	Band Band `json:"band"`
}

// DeviationReport holds the actual-versus-target comparison at both
// hierarchy levels, in declaration order.
type DeviationReport struct {
	Currency      string         `json:"currency"`
	Total         Money          `json:"total"`
	Majors        []DeviationRow `json:"majors"`
	Subcategories []DeviationRow `json:"subcategories"`
	// Warnings carries the unfunded-target flags as structured records.
	Warnings []Warning `json:"warnings,omitempty"`
}

// Analyze compares the snapshot's actual values against its hierarchy's
// targets at both levels. Every configured key appears exactly once, in
// declaration order, whether or not anything is held in it.
func Analyze(s *Snapshot) *DeviationReport {
	report := &DeviationReport{
		Currency: s.Currency(),
		Total:    s.Total(),
	}
	for major := range s.Hierarchy().Majors() {
		row := deviationRow(major.Name(), major.Ratio(), s.MajorValue(major.Name()), s.Total())
		report.Majors = append(report.Majors, row)
		if row.Unfunded {
			report.Warnings = append(report.Warnings, Warning{Kind: UnfundedTarget, Key: row.Key})
		}
	}
	for key := range s.Hierarchy().Keys() {
		sub, _ := s.Hierarchy().Subcategory(key)
		row := deviationRow(key, sub.Ratio(), s.SubcategoryValue(key), s.Total())
		report.Subcategories = append(report.Subcategories, row)
		if row.Unfunded {
			report.Warnings = append(report.Warnings, Warning{Kind: UnfundedTarget, Key: row.Key})
		}
	}
	return report
}

// deviationRow computes one comparison. Divisions are guarded: a zero
// denominator yields zero, not an error.
func deviationRow(key string, ratio decimal.Decimal, actual, total Money) DeviationRow {
	row := DeviationRow{
		Key:         key,
		TargetRatio: ratio,
		TargetValue: total.Mul(Q(ratio)),
		ActualValue: actual,
	}
	row.DeviationValue = row.ActualValue.Sub(row.TargetValue)
	if !total.IsZero() {
		row.ActualRatio = actual.DivPrice(total).value
	}
	if row.TargetValue.IsZero() {
		row.Unfunded = true
	} else {
		row.DeviationPct = row.DeviationValue.DivPrice(row.TargetValue).value
	}
	row.Band = bandOf(row.DeviationPct)
	return row
}
