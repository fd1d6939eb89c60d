package rebalance

import "testing"

func TestHolding_Validate(t *testing.T) {
	valid := Holding{Name: "CSI 300 ETF", Code: "510300", Kind: LotTraded, Quantity: Q(1200), Category: "equities-domestic"}

	testCases := []struct {
		name    string
		mutate  func(h Holding) Holding
		wantErr bool
	}{
		{"valid etf", func(h Holding) Holding { return h }, false},
		{"cash needs no code", func(h Holding) Holding { h.Kind = Cash; h.Code = ""; return h }, false},
		{"empty name", func(h Holding) Holding { h.Name = ""; return h }, true},
		{"negative quantity", func(h Holding) Holding { h.Quantity = Q(-1); return h }, true},
		{"priced instrument without code", func(h Holding) Holding { h.Code = ""; return h }, true},
		{"negative lot", func(h Holding) Holding { h.LotSize = Q(-100); return h }, true},
		{"missing category", func(h Holding) Holding { h.Category = ""; return h }, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mutate(valid).Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestHolding_Lot(t *testing.T) {
	h := Holding{Kind: LotTraded}
	if !h.Lot().Equal(Q(100)) {
		t.Errorf("Lot() = %s, want the default of 100", h.Lot())
	}
	h.LotSize = Q(10)
	if !h.Lot().Equal(Q(10)) {
		t.Errorf("Lot() = %s, want 10", h.Lot())
	}
}

func TestParseInstrumentKind(t *testing.T) {
	for s, want := range map[string]InstrumentKind{"etf": LotTraded, "fund": Continuous, "cash": Cash} {
		got, err := ParseInstrumentKind(s)
		if err != nil || got != want {
			t.Errorf("ParseInstrumentKind(%q) = %v, %v", s, got, err)
		}
		if got.String() != s {
			t.Errorf("String() = %q, want %q", got.String(), s)
		}
	}
	if _, err := ParseInstrumentKind("bond"); err == nil {
		t.Errorf("ParseInstrumentKind(bond) = nil, want error")
	}
}

func TestHoldings_Lifecycle(t *testing.T) {
	s := NewHoldings()
	a := Holding{Name: "a", Code: "1", Kind: LotTraded, Quantity: Q(100), Category: "stocks-domestic"}
	b := Holding{Name: "b", Code: "2", Kind: Continuous, Quantity: Q(50), Category: "stocks-global"}
	c := Holding{Name: "c", Kind: Cash, Quantity: Q(1000), Category: "safety-cash"}
	mustAdd(s, a, b, c)

	if err := s.Add(a); err == nil {
		t.Fatalf("Add(duplicate) = nil, want error")
	}

	// update keeps the position
	b.Quantity = Q(75)
	if err := s.Update(b); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := s.Get("b")
	if !got.Quantity.Equal(Q(75)) {
		t.Errorf("Get(b).Quantity = %s, want 75", got.Quantity)
	}

	// rename to a taken name keeps the old record
	renamed := b
	renamed.Name = "c"
	if err := s.Rename("b", renamed); err == nil {
		t.Fatalf("Rename(b->c) = nil, want collision error")
	}
	if !s.Has("b") {
		t.Errorf("Has(b) = false after failed rename")
	}

	renamed.Name = "b2"
	if err := s.Rename("b", renamed); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if s.Has("b") || !s.Has("b2") {
		t.Errorf("rename left b=%v b2=%v", s.Has("b"), s.Has("b2"))
	}

	// delete reindexes the holdings after the gap
	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, ok := s.Get("c")
	if !ok || got.Name != "c" {
		t.Errorf("Get(c) = %v, %v after delete", got, ok)
	}

	var names []string
	for h := range s.All() {
		names = append(names, h.Name)
	}
	if len(names) != 2 || names[0] != "b2" || names[1] != "c" {
		t.Errorf("All() order = %v, want [b2 c]", names)
	}
}
