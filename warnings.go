package rebalance

import "fmt"

// WarningKind classifies the non-fatal conditions a report can surface.
// None of them aborts a computation.
type WarningKind int

const (
	// PriceUnavailable: a price lookup failed; the holding contributed
	// zero to all totals.
	PriceUnavailable WarningKind = iota
	// OrphanedHolding: the holding's category key no longer resolves in
	// the hierarchy; the holding is excluded from category aggregation.
	OrphanedHolding
	// DegenerateCategory: an actionable subcategory holds nothing, so no
	// quantity suggestion can be scaled proportionally.
	DegenerateCategory
	// UnfundedTarget: a configured category has a zero target value, so
	// its deviation percentage is reported as zero by convention.
	UnfundedTarget
)

func (k WarningKind) String() string {
	switch k {
	case PriceUnavailable:
		return "price-unavailable"
	case OrphanedHolding:
		return "orphaned-holding"
	case DegenerateCategory:
		return "degenerate-category"
	case UnfundedTarget:
		return "unfunded-target"
	default:
		return "unknown"
	}
}

// Warning is a structured, non-fatal diagnostic attached to a report.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Holding string      `json:"holding,omitempty"`  // holding concerned, if any
	Key     string      `json:"category,omitempty"` // category key concerned, if any
	Detail  string      `json:"detail,omitempty"`
}

func (w Warning) String() string {
	s := w.Kind.String()
	if w.Holding != "" {
		s += " " + w.Holding
	}
	if w.Key != "" {
		s += " " + w.Key
	}
	if w.Detail != "" {
		s += ": " + w.Detail
	}
	return s
}

func (w Warning) MarshalJSON() ([]byte, error) {
	var jw jsonObjectWriter
	jw.Append("kind", w.Kind.String())
	jw.Optional("holding", w.Holding)
	jw.Optional("category", w.Key)
	jw.Optional("detail", w.Detail)
	return jw.MarshalJSON()
}

var _ fmt.Stringer = Warning{}
