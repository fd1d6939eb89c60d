package rebalance

import (
	"fmt"
	"iter"
	"strings"

	"github.com/shopspring/decimal"
)

// ratioSlack is the tolerance on ratio sums: a sum within 1% of its
// expected value is accepted, so users can type 0.33+0.33+0.34 style
// allocations without fighting the validator.
var (
	ratioSlackLo = decimal.NewFromFloat(0.99)
	ratioSlackHi = decimal.NewFromFloat(1.01)
)

// Subcategory is a refinement within a major category. Its target ratio is
// a fraction of the total portfolio value, not of its parent category.
type Subcategory struct {
	name  string
	ratio decimal.Decimal
}

func (s Subcategory) Name() string           { return s.name }
func (s Subcategory) Ratio() decimal.Decimal { return s.ratio }

// Category is a top-level asset class bucket owning an ordered list of
// subcategories.
type Category struct {
	name  string
	ratio decimal.Decimal
	subs  []Subcategory
}

func (c Category) Name() string           { return c.name }
func (c Category) Ratio() decimal.Decimal { return c.ratio }

// Subcategories returns an iterator over the category's subcategories in
// declaration order.
func (c Category) Subcategories() iter.Seq[Subcategory] {
	return func(yield func(Subcategory) bool) {
		for _, s := range c.subs {
			if !yield(s) {
				return
			}
		}
	}
}

// SubKey returns the fully-qualified key of a subcategory: "major-minor".
func SubKey(major, minor string) string { return major + "-" + minor }

// SplitKey splits a fully-qualified subcategory key into its major and
// minor parts. The major part never contains a dash; the minor part may.
func SplitKey(key string) (major, minor string, ok bool) {
	major, minor, ok = strings.Cut(key, "-")
	return
}

// Hierarchy is the two-level target allocation: an ordered list of major
// categories, each owning ordered subcategories. The order is the user's
// declaration order; it drives report ordering but has no semantic weight.
//
// A Hierarchy is immutable once built. Edits go through a Draft (see
// Edit) and only a draft that passes Validate can be committed.
type Hierarchy struct {
	majors    []Category
	liquidity string // subcategory key excluded from rebalancing triggers
}

// Liquidity returns the fully-qualified key of the designated liquidity
// subcategory, the rebalancing slack bucket.
func (h *Hierarchy) Liquidity() string { return h.liquidity }

// Majors returns an iterator over the major categories in declaration order.
func (h *Hierarchy) Majors() iter.Seq[Category] {
	return func(yield func(Category) bool) {
		for _, c := range h.majors {
			if !yield(c) {
				return
			}
		}
	}
}

// Keys returns an iterator over all fully-qualified subcategory keys in
// declaration order.
func (h *Hierarchy) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, c := range h.majors {
			for _, s := range c.subs {
				if !yield(SubKey(c.name, s.name)) {
					return
				}
			}
		}
	}
}

// Major returns the major category with the given name.
func (h *Hierarchy) Major(name string) (Category, bool) {
	for _, c := range h.majors {
		if c.name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Subcategory returns the subcategory for a fully-qualified key.
func (h *Hierarchy) Subcategory(key string) (Subcategory, bool) {
	major, minor, ok := SplitKey(key)
	if !ok {
		return Subcategory{}, false
	}
	c, ok := h.Major(major)
	if !ok {
		return Subcategory{}, false
	}
	for _, s := range c.subs {
		if s.name == minor {
			return s, true
		}
	}
	return Subcategory{}, false
}

// Has reports whether key resolves to a subcategory of this hierarchy.
func (h *Hierarchy) Has(key string) bool {
	_, ok := h.Subcategory(key)
	return ok
}

// Flatten returns the target ratios as two lookup tables: one keyed by
// major name, one keyed by fully-qualified "major-minor" key.
func (h *Hierarchy) Flatten() (majors, subs map[string]decimal.Decimal) {
	majors = make(map[string]decimal.Decimal, len(h.majors))
	subs = make(map[string]decimal.Decimal)
	for _, c := range h.majors {
		majors[c.name] = c.ratio
		for _, s := range c.subs {
			subs[SubKey(c.name, s.name)] = s.ratio
		}
	}
	return majors, subs
}

// ValidationError describes a violated hierarchy invariant, with the exact
// computed sums so the caller can present a precise diagnostic.
type ValidationError struct {
	Invariant string          // "major-sum", "subcategory-sum" or "duplicate-key"
	Major     string          // major category concerned, empty for "major-sum"
	Key       string          // duplicated key, for "duplicate-key"
	Sum       decimal.Decimal // computed sum
	Want      decimal.Decimal // expected sum
}

func (e *ValidationError) Error() string {
	switch e.Invariant {
	case "major-sum":
		return fmt.Sprintf("major ratios sum to %s, expected %s", pct(e.Sum), pct(e.Want))
	case "subcategory-sum":
		return fmt.Sprintf("subcategory ratios of %q sum to %s, expected %s (the major's ratio)", e.Major, pct(e.Sum), pct(e.Want))
	case "duplicate-key":
		return fmt.Sprintf("subcategory key %q is declared more than once", e.Key)
	default:
		return "invalid hierarchy"
	}
}

// pct formats a fraction as a percentage for diagnostics: 0.87 -> "87%".
func pct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).RoundBank(2).String() + "%"
}

// Validate checks the hierarchy's ratio invariants:
//
//   - the major ratios sum to 1 (within a 1% slack),
//   - each major's subcategory ratios sum to that major's ratio (within
//     the same relative slack),
//   - every fully-qualified subcategory key is unique.
//
// It returns the first violated invariant as a *ValidationError carrying
// the exact computed sums, or nil when all invariants hold.
func (h *Hierarchy) Validate() error {
	var total decimal.Decimal
	for _, c := range h.majors {
		total = total.Add(c.ratio)
	}
	if total.LessThan(ratioSlackLo) || total.GreaterThan(ratioSlackHi) {
		return &ValidationError{Invariant: "major-sum", Sum: total, Want: decimal.NewFromInt(1)}
	}

	for _, c := range h.majors {
		var sum decimal.Decimal
		for _, s := range c.subs {
			sum = sum.Add(s.ratio)
		}
		if sum.LessThan(ratioSlackLo.Mul(c.ratio)) || sum.GreaterThan(ratioSlackHi.Mul(c.ratio)) {
			return &ValidationError{Invariant: "subcategory-sum", Major: c.name, Sum: sum, Want: c.ratio}
		}
	}

	seen := make(map[string]struct{})
	for key := range h.Keys() {
		if _, dup := seen[key]; dup {
			return &ValidationError{Invariant: "duplicate-key", Key: key}
		}
		seen[key] = struct{}{}
	}
	return nil
}

// DefaultHierarchy returns the built-in target allocation used when an
// owner has not configured one yet: 40% bonds, 40% equities, 10%
// commodities and a 10% flexible bucket whose cash subcategory is the
// rebalancing slack.
func DefaultHierarchy() *Hierarchy {
	r := func(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }
	return &Hierarchy{
		liquidity: SubKey("flexible", "cash"),
		majors: []Category{
			{name: "bonds", ratio: r(0.40), subs: []Subcategory{
				{name: "rates", ratio: r(0.20)},
				{name: "credit", ratio: r(0.20)},
			}},
			{name: "equities", ratio: r(0.40), subs: []Subcategory{
				{name: "domestic", ratio: r(0.10)},
				{name: "tech", ratio: r(0.10)},
				{name: "dividend", ratio: r(0.10)},
				{name: "global", ratio: r(0.10)},
			}},
			{name: "commodities", ratio: r(0.10), subs: []Subcategory{
				{name: "gold", ratio: r(0.10)},
			}},
			{name: "flexible", ratio: r(0.10), subs: []Subcategory{
				{name: "cash", ratio: r(0.10)},
			}},
		},
	}
}
