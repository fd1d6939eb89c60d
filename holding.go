package rebalance

import (
	"encoding/json"
	"fmt"
	"iter"
)

// InstrumentKind categorizes how an instrument can be transacted, which
// drives how rebalancing suggestions are rounded.
type InstrumentKind int

const (
	// LotTraded instruments transact in fixed-size multiples (exchange
	// traded funds and stocks).
	LotTraded InstrumentKind = iota
	// Continuous instruments transact in arbitrary fractional amounts
	// (open-ended funds).
	Continuous
	// Cash is a value-only instrument: one unit is worth one unit of the
	// reporting currency and no quantity suggestion ever applies.
	Cash
)

func (k InstrumentKind) String() string {
	switch k {
	case LotTraded:
		return "etf"
	case Continuous:
		return "fund"
	case Cash:
		return "cash"
	default:
		return "unknown"
	}
}

// MarshalJSON persists the kind under its parseable string form.
func (k InstrumentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *InstrumentKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	kind, err := ParseInstrumentKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseInstrumentKind parses a string into an InstrumentKind.
func ParseInstrumentKind(s string) (InstrumentKind, error) {
	switch s {
	case "etf":
		return LotTraded, nil
	case "fund":
		return Continuous, nil
	case "cash":
		return Cash, nil
	default:
		return 0, fmt.Errorf("unknown instrument kind: %q (want etf, fund or cash)", s)
	}
}

// DefaultLotSize is the transaction lot for lot-traded instruments that
// do not declare their own.
var DefaultLotSize = Q(100)

// Holding is one position in an owner's portfolio.
type Holding struct {
	// Name uniquely identifies the holding within the portfolio.
	Name string
	// Code is the instrument code used for price lookups, e.g. "sh511260".
	// Unused for cash holdings.
	Code string
	// Kind categorizes the instrument for pricing and lot rounding.
	Kind InstrumentKind
	// Quantity is the number of units held, never negative.
	Quantity Quantity
	// Category is the fully-qualified subcategory key ("major-minor") this
	// holding is allocated to. A key that no longer resolves in the
	// hierarchy orphans the holding; that is a data-quality condition, not
	// an error.
	Category string
	// LotSize overrides DefaultLotSize for lot-traded instruments.
	LotSize Quantity
	// Note is free-form user text.
	Note string
}

// Lot returns the transaction lot size in effect for this holding.
func (h Holding) Lot() Quantity {
	if h.LotSize.IsZero() {
		return DefaultLotSize
	}
	return h.LotSize
}

// Validate checks the holding record for correctness.
func (h Holding) Validate() error {
	if h.Name == "" {
		return fmt.Errorf("holding name cannot be empty")
	}
	if h.Quantity.IsNegative() {
		return fmt.Errorf("holding %q has a negative quantity %s", h.Name, h.Quantity)
	}
	if h.Kind != Cash && h.Code == "" {
		return fmt.Errorf("holding %q needs an instrument code for price lookups", h.Name)
	}
	if h.LotSize.IsNegative() {
		return fmt.Errorf("holding %q has a negative lot size %s", h.Name, h.LotSize)
	}
	if h.Category == "" {
		return fmt.Errorf("holding %q has no category key", h.Name)
	}
	return nil
}

// MarshalJSON keeps a stable, human-meaningful field order in the
// persistence files.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", h.Name)
	w.Optional("code", h.Code)
	w.Append("kind", h.Kind)
	w.Append("quantity", h.Quantity)
	w.Append("category", h.Category)
	w.Optional("lot", h.LotSize)
	w.Optional("note", h.Note)
	return w.MarshalJSON()
}

// Holdings is the set of all holdings for one owner, keyed by unique name.
// Insertion order is preserved for display.
type Holdings struct {
	list  []Holding
	index map[string]int
}

// NewHoldings returns an empty holdings set.
func NewHoldings() *Holdings {
	return &Holdings{index: make(map[string]int)}
}

func (s *Holdings) Len() int { return len(s.list) }

func (s *Holdings) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Get returns the holding with that name.
func (s *Holdings) Get(name string) (Holding, bool) {
	i, ok := s.index[name]
	if !ok {
		return Holding{}, false
	}
	return s.list[i], true
}

// All returns an iterator over the holdings in insertion order.
func (s *Holdings) All() iter.Seq[Holding] {
	return func(yield func(Holding) bool) {
		for _, h := range s.list {
			if !yield(h) {
				return
			}
		}
	}
}

// Add inserts a new holding. The name must not be taken.
func (s *Holdings) Add(h Holding) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if s.Has(h.Name) {
		return fmt.Errorf("holding %q already exists", h.Name)
	}
	s.index[h.Name] = len(s.list)
	s.list = append(s.list, h)
	return nil
}

// Update replaces an existing holding, keeping its position.
func (s *Holdings) Update(h Holding) error {
	if err := h.Validate(); err != nil {
		return err
	}
	i, ok := s.index[h.Name]
	if !ok {
		return fmt.Errorf("unknown holding %q", h.Name)
	}
	s.list[i] = h
	return nil
}

// Rename atomically replaces the holding named oldName with h, which may
// carry a different name. The old record is only released once the new
// one is validated, so a failing edit never loses data.
func (s *Holdings) Rename(oldName string, h Holding) error {
	if err := h.Validate(); err != nil {
		return err
	}
	i, ok := s.index[oldName]
	if !ok {
		return fmt.Errorf("unknown holding %q", oldName)
	}
	if h.Name != oldName && s.Has(h.Name) {
		return fmt.Errorf("holding %q already exists", h.Name)
	}
	delete(s.index, oldName)
	s.index[h.Name] = i
	s.list[i] = h
	return nil
}

// Delete removes the holding with that name.
func (s *Holdings) Delete(name string) error {
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("unknown holding %q", name)
	}
	delete(s.index, name)
	s.list = append(s.list[:i], s.list[i+1:]...)
	for n, j := range s.index {
		if j > i {
			s.index[n] = j - 1
		}
	}
	return nil
}
