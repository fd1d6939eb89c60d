package rebalance

import (
	"context"
	"errors"
	"fmt"
)

// ErrPriceUnavailable is returned by a PriceSource when no current price
// exists for an instrument. Valuation treats it (like any other lookup
// error) as non-fatal: the holding is valued at zero and a warning is
// surfaced with the report.
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceSource provides current market prices per instrument. It must be
// safe to call concurrently for many instruments: lookups are pure reads
// with no shared mutable state.
//
// Cash holdings are never looked up; their unit price is one by definition.
type PriceSource interface {
	// Price returns the current unit price of an instrument in the
	// reporting currency.
	Price(ctx context.Context, code string, kind InstrumentKind) (Money, error)
}

// StaticPrices is an in-memory PriceSource, for offline reports and tests.
type StaticPrices map[string]Money

func (p StaticPrices) Price(_ context.Context, code string, _ InstrumentKind) (Money, error) {
	m, ok := p[code]
	if !ok {
		return Money{}, fmt.Errorf("%q: %w", code, ErrPriceUnavailable)
	}
	return m, nil
}
