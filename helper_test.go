package rebalance

import (
	"context"

	"github.com/shopspring/decimal"
)

// CNY is a helper for test to create yuan money from const
func CNY(v float64) Money { return M(v, "CNY") }

// r is a helper for test to create a ratio from const
func r(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// twoLevels builds a small valid allocation used across tests:
// 60% stocks (domestic 30, global 30), 40% safety (cash 40, liquidity).
func twoLevels() *Hierarchy {
	return &Hierarchy{
		liquidity: "safety-cash",
		majors: []Category{
			{name: "stocks", ratio: r(0.60), subs: []Subcategory{
				{name: "domestic", ratio: r(0.30)},
				{name: "global", ratio: r(0.30)},
			}},
			{name: "safety", ratio: r(0.40), subs: []Subcategory{
				{name: "cash", ratio: r(0.40)},
			}},
		},
	}
}

// valuedAt snapshots holdings against fixed prices in CNY.
func valuedAt(h *Hierarchy, holdings *Holdings, prices StaticPrices) *Snapshot {
	return NewSnapshot(context.Background(), holdings, h, prices, "CNY")
}

// mustAdd populates holdings, panicking on invalid fixtures so tests
// fail loudly at setup.
func mustAdd(s *Holdings, hs ...Holding) *Holdings {
	for _, h := range hs {
		if err := s.Add(h); err != nil {
			panic(err)
		}
	}
	return s
}
