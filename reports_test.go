package rebalance

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNewReport(t *testing.T) {
	holdings := mustAdd(NewHoldings(),
		Holding{Name: "dom", Code: "1", Kind: LotTraded, Quantity: Q(15), Category: "stocks-domestic"},
		Holding{Name: "cash", Kind: Cash, Quantity: Q(400), Category: "safety-cash"},
	)
	report := NewReport(context.Background(), "alice", holdings, twoLevels(), StaticPrices{"1": CNY(10)}, "CNY")

	if report.Owner != "alice" || report.Currency != "CNY" {
		t.Errorf("header = %q %q", report.Owner, report.Currency)
	}
	if !report.Valid {
		t.Errorf("Valid = false on a valid hierarchy")
	}
	if !report.Total.Equal(CNY(550)) {
		t.Errorf("Total = %s, want 550 CNY", report.Total)
	}
	if report.Deviations == nil || report.Plan == nil {
		t.Fatalf("report is missing deviations or plan")
	}
	if len(report.Holdings) != 2 {
		t.Errorf("Holdings = %d, want 2", len(report.Holdings))
	}
}

func TestNewReport_InvalidHierarchyStillComputes(t *testing.T) {
	broken := &Hierarchy{majors: []Category{
		{name: "a", ratio: r(0.47), subs: []Subcategory{{name: "x", ratio: r(0.47)}}},
		{name: "b", ratio: r(0.40), subs: []Subcategory{{name: "x", ratio: r(0.40)}}},
	}}
	holdings := mustAdd(NewHoldings(),
		Holding{Name: "A", Code: "1", Kind: LotTraded, Quantity: Q(10), Category: "a-x"},
	)
	report := NewReport(context.Background(), "", holdings, broken, StaticPrices{"1": CNY(1)}, "CNY")

	if report.Valid {
		t.Errorf("Valid = true on an unbalanced hierarchy")
	}
	if report.Invalid != "major ratios sum to 87%, expected 100%" {
		t.Errorf("Invalid = %q", report.Invalid)
	}
	// computation is degraded, not refused
	if !report.Total.Equal(CNY(10)) {
		t.Errorf("Total = %s, want 10 CNY", report.Total)
	}
}

func TestReport_JSON(t *testing.T) {
	holdings := mustAdd(NewHoldings(),
		Holding{Name: "dom", Code: "1", Kind: LotTraded, Quantity: Q(15), Category: "stocks-domestic"},
	)
	report := NewReport(context.Background(), "alice", holdings, twoLevels(), StaticPrices{"1": CNY(10)}, "CNY")

	b, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"owner", "currency", "valid", "total", "deviations", "plan"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report JSON is missing %q", key)
		}
	}
}
