package rebalance

import (
	"testing"
)

// flat builds a one-investable-bucket allocation: 50% a-x to act on,
// 50% b-cash as liquidity.
func flat() *Hierarchy {
	return &Hierarchy{
		liquidity: "b-cash",
		majors: []Category{
			{name: "a", ratio: r(0.50), subs: []Subcategory{{name: "x", ratio: r(0.50)}}},
			{name: "b", ratio: r(0.50), subs: []Subcategory{{name: "cash", ratio: r(0.50)}}},
		},
	}
}

func TestAdvise_BuyRoundsDownToLots(t *testing.T) {
	// a-x holds 763 at 1 CNY against a 1000 target: 23.7% underweight,
	// actionable. The +237 correction buys 2 whole lots, not 3.
	holdings := mustAdd(NewHoldings(),
		Holding{Name: "etf", Code: "1", Kind: LotTraded, Quantity: Q(763), Category: "a-x"},
		Holding{Name: "cash", Kind: Cash, Quantity: Q(1237), Category: "b-cash"},
	)
	s := valuedAt(flat(), holdings, StaticPrices{"1": CNY(1)})
	plan := Advise(s, Analyze(s))

	if len(plan.Actions) != 1 {
		t.Fatalf("Actions = %d, want 1", len(plan.Actions))
	}
	action := plan.Actions[0]
	if action.Key != "a-x" || !action.Correction.Equal(CNY(237)) {
		t.Fatalf("action = %s %s, want a-x +237 CNY", action.Key, action.Correction)
	}
	if len(action.Suggestions) != 1 {
		t.Fatalf("Suggestions = %d, want 1", len(action.Suggestions))
	}
	sug := action.Suggestions[0]
	if sug.Direction != Buy || !sug.Quantity.Equal(Q(200)) {
		t.Errorf("suggestion = %s %s, want buy 200", sug.Direction, sug.Quantity)
	}
	if !sug.ImpliedValue.Equal(CNY(200)) {
		t.Errorf("ImpliedValue = %s, want 200 CNY", sug.ImpliedValue)
	}
}

func TestAdvise_AppliedPlanConverges(t *testing.T) {
	// applying the rounded suggestion brings the category back inside
	// the tolerance: a second run proposes nothing.
	holdings := mustAdd(NewHoldings(),
		Holding{Name: "etf", Code: "1", Kind: LotTraded, Quantity: Q(763), Category: "a-x"},
		Holding{Name: "cash", Kind: Cash, Quantity: Q(1237), Category: "b-cash"},
	)
	prices := StaticPrices{"1": CNY(1)}
	s := valuedAt(flat(), holdings, prices)
	plan := Advise(s, Analyze(s))

	for _, action := range plan.Actions {
		for _, sug := range action.Suggestions {
			h, _ := holdings.Get(sug.Holding)
			if sug.Direction == Buy {
				h.Quantity = h.Quantity.Add(sug.Quantity)
			} else {
				h.Quantity = h.Quantity.Sub(sug.Quantity)
			}
			if err := holdings.Update(h); err != nil {
				t.Fatalf("Update() error = %v", err)
			}
		}
	}

	s = valuedAt(flat(), holdings, prices)
	again := Advise(s, Analyze(s))
	if len(again.Actions) != 0 {
		t.Errorf("second run Actions = %v, want none", again.Actions)
	}
}

func TestAdvise_LiquidityNeverActionable(t *testing.T) {
	// the liquidity bucket is wildly overweight, everything else on
	// target; no action may touch it.
	holdings := mustAdd(NewHoldings(),
		Holding{Name: "cash", Kind: Cash, Quantity: Q(1000), Category: "b-cash"},
		Holding{Name: "etf", Code: "1", Kind: LotTraded, Quantity: Q(100), Category: "a-x"},
	)
	s := valuedAt(flat(), holdings, StaticPrices{"1": CNY(1)})
	plan := Advise(s, Analyze(s))
	for _, action := range plan.Actions {
		if action.Key == "b-cash" {
			t.Errorf("the liquidity bucket got an action: %+v", action)
		}
	}
}

func TestAdvise_BelowThresholdIgnored(t *testing.T) {
	// 15% underweight is notable but not actionable.
	holdings := mustAdd(NewHoldings(),
		Holding{Name: "etf", Code: "1", Kind: LotTraded, Quantity: Q(850), Category: "a-x"},
		Holding{Name: "cash", Kind: Cash, Quantity: Q(1150), Category: "b-cash"},
	)
	s := valuedAt(flat(), holdings, StaticPrices{"1": CNY(1)})
	report := Analyze(s)
	plan := Advise(s, report)

	if len(plan.Actions) != 0 {
		t.Fatalf("Actions = %v, want none at 15%% deviation", plan.Actions)
	}
	for _, row := range report.Subcategories {
		if row.Key == "a-x" && row.Band != BandNotable {
			t.Errorf("a-x Band = %s, want notable", row.Band)
		}
	}
}

func TestAdvise_DegenerateCategory(t *testing.T) {
	// a-x has a target but no holdings: advisory instead of suggestions.
	holdings := mustAdd(NewHoldings(),
		Holding{Name: "cash", Kind: Cash, Quantity: Q(1000), Category: "b-cash"},
	)
	s := valuedAt(flat(), holdings, StaticPrices{})
	plan := Advise(s, Analyze(s))

	if len(plan.Actions) != 1 {
		t.Fatalf("Actions = %d, want 1", len(plan.Actions))
	}
	action := plan.Actions[0]
	if action.Advisory == "" || len(action.Suggestions) != 0 {
		t.Errorf("action = %+v, want an advisory and no suggestions", action)
	}
	if !action.Correction.Equal(CNY(500)) {
		t.Errorf("Correction = %s, want +500 CNY", action.Correction)
	}
	found := false
	for _, w := range plan.Warnings {
		if w.Kind == DegenerateCategory && w.Key == "a-x" {
			found = true
		}
	}
	if !found {
		t.Errorf("no degenerate-category warning in %v", plan.Warnings)
	}
}

func TestAdvise_MajorDriftOrder(t *testing.T) {
	h := twoLevels()
	// both stocks subcategories far off target, safety on target
	holdings := mustAdd(NewHoldings(),
		Holding{Name: "dom", Code: "1", Kind: LotTraded, Quantity: Q(100), Category: "stocks-domestic"},
		Holding{Name: "glo", Code: "2", Kind: Continuous, Quantity: Q(500), Category: "stocks-global"},
		Holding{Name: "cash", Kind: Cash, Quantity: Q(400), Category: "safety-cash"},
	)
	s := valuedAt(h, holdings, StaticPrices{"1": CNY(1), "2": CNY(1)})
	plan := Advise(s, Analyze(s))

	if len(plan.MajorDrift) != 1 || plan.MajorDrift[0].Major != "stocks" {
		t.Fatalf("MajorDrift = %v, want a single stocks entry", plan.MajorDrift)
	}
	// |-200/300| + |+200/300|
	want := r(200).Div(r(300)).Mul(r(2))
	if !plan.MajorDrift[0].Drift.Equal(want) {
		t.Errorf("Drift = %s, want %s", plan.MajorDrift[0].Drift, want)
	}
}

func TestSizeTrade(t *testing.T) {
	t.Run("sell capped at whole held lots", func(t *testing.T) {
		vh := ValuedHolding{
			Holding:     Holding{Name: "etf", Kind: LotTraded, Quantity: Q(150)},
			UnitPrice:   CNY(1),
			MarketValue: CNY(150),
			Priced:      true,
		}
		sug, ok := sizeTrade(vh, CNY(-237), CNY(150))
		if !ok || sug.Direction != Sell || !sug.Quantity.Equal(Q(100)) {
			t.Errorf("sizeTrade() = %+v %v, want sell 100", sug, ok)
		}
	})

	t.Run("fund sell capped at exact position", func(t *testing.T) {
		vh := ValuedHolding{
			Holding:     Holding{Name: "fund", Kind: Continuous, Quantity: Q(10)},
			UnitPrice:   CNY(1),
			MarketValue: CNY(10),
			Priced:      true,
		}
		sug, ok := sizeTrade(vh, CNY(-12.345), CNY(10))
		if !ok || sug.Direction != Sell || !sug.Quantity.Equal(Q(10)) {
			t.Errorf("sizeTrade() = %+v %v, want sell 10.00", sug, ok)
		}
	})

	t.Run("fund buys round to two decimals", func(t *testing.T) {
		vh := ValuedHolding{
			Holding:     Holding{Name: "fund", Kind: Continuous, Quantity: Q(100)},
			UnitPrice:   CNY(1),
			MarketValue: CNY(100),
			Priced:      true,
		}
		sug, ok := sizeTrade(vh, CNY(12.345), CNY(100))
		if !ok || sug.Direction != Buy || !sug.Quantity.Equal(Q(12.35)) {
			t.Errorf("sizeTrade() = %+v %v, want buy 12.35", sug, ok)
		}
	})

	t.Run("cash never trades", func(t *testing.T) {
		vh := ValuedHolding{
			Holding:     Holding{Name: "cash", Kind: Cash, Quantity: Q(1000)},
			UnitPrice:   CNY(1),
			MarketValue: CNY(1000),
			Priced:      true,
		}
		if _, ok := sizeTrade(vh, CNY(500), CNY(1000)); ok {
			t.Errorf("sizeTrade(cash) suggested a trade")
		}
	})

	t.Run("small correction rounds away", func(t *testing.T) {
		vh := ValuedHolding{
			Holding:     Holding{Name: "etf", Kind: LotTraded, Quantity: Q(1000)},
			UnitPrice:   CNY(1),
			MarketValue: CNY(1000),
			Priced:      true,
		}
		if _, ok := sizeTrade(vh, CNY(99), CNY(1000)); ok {
			t.Errorf("a sub-lot correction still produced a trade")
		}
	})
}
