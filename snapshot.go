package rebalance

import (
	"context"
	"iter"
	"sync"
)

// ValuedHolding is a holding joined with its current market value.
// It is derived data, never persisted.
type ValuedHolding struct {
	Holding
	// UnitPrice is the current price of one unit, in the reporting
	// currency. For cash it is one by definition.
	UnitPrice Money
	// MarketValue is Quantity times UnitPrice.
	MarketValue Money
	// Priced is false when the price lookup failed and the holding was
	// valued at zero.
	Priced bool
	// Orphaned is true when the holding's category key does not resolve
	// in the snapshot's hierarchy.
	Orphaned bool
}

// MarshalJSON flattens the holding and its valuation into one record.
func (vh ValuedHolding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(vh.Holding)
	w.Append("unitPrice", vh.UnitPrice)
	w.Append("marketValue", vh.MarketValue)
	w.Append("priced", vh.Priced)
	w.Optional("orphaned", vh.Orphaned)
	return w.MarshalJSON()
}

// Snapshot is a valuation of a whole portfolio at one instant: every
// holding joined with its price, aggregated per subcategory, per major
// category, and in total. It is a stateless calculator over its inputs;
// computing it twice over unchanged inputs yields identical results.
type Snapshot struct {
	hierarchy *Hierarchy
	currency  string
	holdings  []ValuedHolding
	bySub     map[string]Money
	byMajor   map[string]Money
	total     Money
	warnings  []Warning
}

// NewSnapshot values every holding against the price source and
// aggregates the result over the hierarchy.
//
// Price lookups for distinct holdings are independent pure reads, so
// they are issued concurrently. A failed lookup degrades that single
// holding to a zero value with a PriceUnavailable warning; it never
// fails the snapshot. A holding whose category key does not resolve
// counts toward the portfolio total but not toward any category, with
// an OrphanedHolding warning.
func NewSnapshot(ctx context.Context, holdings *Holdings, hierarchy *Hierarchy, prices PriceSource, currency string) *Snapshot {
	s := &Snapshot{
		hierarchy: hierarchy,
		currency:  currency,
		holdings:  make([]ValuedHolding, 0, holdings.Len()),
		bySub:     make(map[string]Money),
		byMajor:   make(map[string]Money),
		total:     M(0, currency),
	}

	for h := range holdings.All() {
		s.holdings = append(s.holdings, ValuedHolding{Holding: h})
	}

	// Value each holding. Cash is its own quantity; everything else is
	// priced concurrently, each failure isolated to its own holding.
	var wg sync.WaitGroup
	for i := range s.holdings {
		vh := &s.holdings[i]
		if vh.Kind == Cash {
			vh.UnitPrice = M(1, currency)
			vh.MarketValue = vh.UnitPrice.Mul(vh.Quantity)
			vh.Priced = true
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			price, err := prices.Price(ctx, vh.Code, vh.Kind)
			if err != nil {
				vh.MarketValue = M(0, currency)
				return
			}
			vh.UnitPrice = price
			vh.MarketValue = price.Mul(vh.Quantity)
			vh.Priced = true
		}()
	}
	wg.Wait()

	// Aggregate in insertion order so warnings come out deterministic.
	for i := range s.holdings {
		vh := &s.holdings[i]
		if !vh.Priced {
			s.warnings = append(s.warnings, Warning{
				Kind:    PriceUnavailable,
				Holding: vh.Name,
				Detail:  "valued at 0 in this report",
			})
		}
		s.total = s.total.Add(vh.MarketValue)

		if !hierarchy.Has(vh.Category) {
			vh.Orphaned = true
			s.warnings = append(s.warnings, Warning{
				Kind:    OrphanedHolding,
				Holding: vh.Name,
				Key:     vh.Category,
				Detail:  "category key does not resolve in the current hierarchy",
			})
			continue
		}
		major, _, _ := SplitKey(vh.Category)
		s.bySub[vh.Category] = s.bySub[vh.Category].Add(vh.MarketValue)
		s.byMajor[major] = s.byMajor[major].Add(vh.MarketValue)
	}
	return s
}

// Currency returns the snapshot's reporting currency.
func (s *Snapshot) Currency() string { return s.currency }

// Hierarchy returns the target hierarchy the snapshot was computed against.
func (s *Snapshot) Hierarchy() *Hierarchy { return s.hierarchy }

// Total returns the total market value of the portfolio, orphaned
// holdings included.
func (s *Snapshot) Total() Money { return s.total }

// SubcategoryValue returns the aggregated market value of a subcategory
// key, zero when nothing maps to it.
func (s *Snapshot) SubcategoryValue(key string) Money {
	if v, ok := s.bySub[key]; ok {
		return v
	}
	return M(0, s.currency)
}

// MajorValue returns the aggregated market value of a major category,
// zero when nothing maps to it.
func (s *Snapshot) MajorValue(name string) Money {
	if v, ok := s.byMajor[name]; ok {
		return v
	}
	return M(0, s.currency)
}

// Holdings returns an iterator over the valued holdings in insertion order.
func (s *Snapshot) Holdings() iter.Seq[ValuedHolding] {
	return func(yield func(ValuedHolding) bool) {
		for _, vh := range s.holdings {
			if !yield(vh) {
				return
			}
		}
	}
}

// InCategory returns an iterator over the valued holdings allocated to a
// subcategory key, in insertion order. Orphaned holdings never match.
func (s *Snapshot) InCategory(key string) iter.Seq[ValuedHolding] {
	return func(yield func(ValuedHolding) bool) {
		for _, vh := range s.holdings {
			if vh.Orphaned || vh.Category != key {
				continue
			}
			if !yield(vh) {
				return
			}
		}
	}
}

// Warnings returns the non-fatal conditions encountered during valuation.
func (s *Snapshot) Warnings() []Warning { return s.warnings }
