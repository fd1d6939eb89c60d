package rebalance

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestEncodeHierarchy_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeHierarchy(&buf, twoLevels()); err != nil {
		t.Fatalf("EncodeHierarchy() error = %v", err)
	}
	want := `{"liquidity":"safety-cash"}
{"name":"stocks","ratio":0.6,"subcategories":[{"name":"domestic","ratio":0.3},{"name":"global","ratio":0.3}]}
{"name":"safety","ratio":0.4,"subcategories":[{"name":"cash","ratio":0.4}]}
`
	if buf.String() != want {
		t.Errorf("EncodeHierarchy() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestHierarchy_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeHierarchy(&buf, DefaultHierarchy()); err != nil {
		t.Fatalf("EncodeHierarchy() error = %v", err)
	}
	h, err := DecodeHierarchy(&buf)
	if err != nil {
		t.Fatalf("DecodeHierarchy() error = %v", err)
	}
	if err := h.Validate(); err != nil {
		t.Fatalf("Validate() after round trip error = %v", err)
	}
	if h.Liquidity() != "flexible-cash" {
		t.Errorf("Liquidity() = %q", h.Liquidity())
	}
	want := DefaultHierarchy()
	var got, exp []string
	for k := range h.Keys() {
		got = append(got, k)
	}
	for k := range want.Keys() {
		exp = append(exp, k)
	}
	if strings.Join(got, ",") != strings.Join(exp, ",") {
		t.Errorf("Keys() = %v, want %v", got, exp)
	}
}

func TestDecodeHierarchy_Errors(t *testing.T) {
	if _, err := DecodeHierarchy(strings.NewReader("not json\n")); err == nil {
		t.Errorf("DecodeHierarchy(garbage) = nil, want error")
	}
	dup := `{"name":"a","ratio":0.5,"subcategories":[{"name":"x","ratio":0.5}]}
{"name":"a","ratio":0.5,"subcategories":[{"name":"x","ratio":0.5}]}
`
	if _, err := DecodeHierarchy(strings.NewReader(dup)); err == nil {
		t.Errorf("DecodeHierarchy(duplicate major) = nil, want error")
	}
}

func TestDecodeHierarchy_KeepsInvalidRatios(t *testing.T) {
	// a stored file that no longer sums up must still load; validity is
	// reported, not enforced, at read time
	stored := `{"name":"a","ratio":0.5,"subcategories":[{"name":"x","ratio":0.5}]}
`
	h, err := DecodeHierarchy(strings.NewReader(stored))
	if err != nil {
		t.Fatalf("DecodeHierarchy() error = %v", err)
	}
	if err := h.Validate(); err == nil {
		t.Errorf("Validate() = nil, want major-sum error")
	}
}

func TestHoldings_RoundTrip(t *testing.T) {
	set := mustAdd(NewHoldings(),
		Holding{Name: "CSI 300 ETF", Code: "510300", Kind: LotTraded, Quantity: Q(1200), Category: "equities-domestic"},
		Holding{Name: "Dividend fund", Code: "110022", Kind: Continuous, Quantity: Q(2500.50), Category: "equities-dividend", Note: "monthly plan"},
		Holding{Name: "Savings", Kind: Cash, Quantity: Q(50000), Category: "flexible-cash"},
		Holding{Name: "Small lot", Code: "159915", Kind: LotTraded, Quantity: Q(30), Category: "equities-tech", LotSize: Q(10)},
	)

	var buf bytes.Buffer
	if err := EncodeHoldings(&buf, set); err != nil {
		t.Fatalf("EncodeHoldings() error = %v", err)
	}

	// stable field order, optional fields omitted
	first, _, _ := strings.Cut(buf.String(), "\n")
	want := `{"name":"CSI 300 ETF","code":"510300","kind":"etf","quantity":1200,"category":"equities-domestic"}`
	if first != want {
		t.Errorf("first line = %s\nwant %s", first, want)
	}

	got, err := DecodeHoldings(&buf)
	if err != nil {
		t.Fatalf("DecodeHoldings() error = %v", err)
	}
	if got.Len() != set.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), set.Len())
	}
	fund, _ := got.Get("Dividend fund")
	if !fund.Quantity.Equal(Q(2500.50)) || fund.Note != "monthly plan" {
		t.Errorf("fund = %+v", fund)
	}
	small, _ := got.Get("Small lot")
	if !small.Lot().Equal(Q(10)) {
		t.Errorf("Lot() = %s, want 10", small.Lot())
	}
	savings, _ := got.Get("Savings")
	if savings.Kind != Cash || !savings.Lot().Equal(DefaultLotSize) {
		t.Errorf("savings = %+v", savings)
	}
}

func TestDecodeHoldings_RejectsInvalid(t *testing.T) {
	// a negative quantity fails the same validation as the API
	line := `{"name":"bad","code":"1","kind":"etf","quantity":-5,"category":"a-x"}
`
	if _, err := DecodeHoldings(strings.NewReader(line)); err == nil {
		t.Errorf("DecodeHoldings(negative quantity) = nil, want error")
	}
}

func TestQuotes_RoundTrip(t *testing.T) {
	q := Quotes{
		"510300": CNY(3.915),
		"110022": CNY(2.4342),
	}
	var buf bytes.Buffer
	if err := EncodeQuotes(&buf, q); err != nil {
		t.Fatalf("EncodeQuotes() error = %v", err)
	}
	// sorted by code for clean diffs
	want := `{"code":"110022","currency":"CNY","amount":2.4342}
{"code":"510300","currency":"CNY","amount":3.915}
`
	if buf.String() != want {
		t.Errorf("EncodeQuotes() =\n%s\nwant\n%s", buf.String(), want)
	}

	got, err := DecodeQuotes(&buf)
	if err != nil {
		t.Fatalf("DecodeQuotes() error = %v", err)
	}
	price, err := got.Price(context.Background(), "510300", LotTraded)
	if err != nil || !price.Equal(CNY(3.915)) {
		t.Errorf("Price() = %s, %v", price, err)
	}
	if _, err := got.Price(context.Background(), "000000", LotTraded); err == nil {
		t.Errorf("Price(unknown) = nil, want ErrPriceUnavailable")
	}
}
