package rebalance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Draft is a mutable working copy of a Hierarchy. Edits accumulate on the
// draft and become visible only when Commit succeeds; an invalid edit
// session never leaks a partially applied hierarchy.
//
// Structural rules (unknown names, duplicates, ratio range) fail at the
// point of the edit. The ratio-sum invariants are only checked at Commit,
// because intermediate states legitimately violate them while the user
// moves weight around.
type Draft struct {
	h Hierarchy
}

// Edit returns a draft initialized with a deep copy of the hierarchy.
func (h *Hierarchy) Edit() *Draft {
	d := &Draft{h: Hierarchy{liquidity: h.liquidity}}
	d.h.majors = make([]Category, len(h.majors))
	for i, c := range h.majors {
		nc := Category{name: c.name, ratio: c.ratio, subs: make([]Subcategory, len(c.subs))}
		copy(nc.subs, c.subs)
		d.h.majors[i] = nc
	}
	return d
}

// validRatio checks that a target ratio is a fraction in (0,1).
func validRatio(ratio decimal.Decimal) error {
	if !ratio.IsPositive() || ratio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("target ratio must be a fraction in (0,1), got %s", ratio)
	}
	return nil
}

// major returns a pointer to the draft's major category with that name.
func (d *Draft) major(name string) (*Category, error) {
	for i := range d.h.majors {
		if d.h.majors[i].name == name {
			return &d.h.majors[i], nil
		}
	}
	return nil, fmt.Errorf("unknown major category %q", name)
}

// AddMajor adds a new major category with a single subcategory of the
// same ratio, mirroring how a fresh bucket starts its life.
func (d *Draft) AddMajor(name string, ratio decimal.Decimal) error {
	if name == "" {
		return fmt.Errorf("major category name cannot be empty")
	}
	if err := validRatio(ratio); err != nil {
		return err
	}
	if _, err := d.major(name); err == nil {
		return fmt.Errorf("major category %q already exists", name)
	}
	d.h.majors = append(d.h.majors, Category{
		name:  name,
		ratio: ratio,
		subs:  []Subcategory{{name: "default", ratio: ratio}},
	})
	return nil
}

// RenameMajor renames a major category. Holdings referencing its
// subcategories are not migrated; they become orphaned until corrected.
func (d *Draft) RenameMajor(oldName, newName string) error {
	if newName == "" {
		return fmt.Errorf("major category name cannot be empty")
	}
	if _, err := d.major(newName); err == nil {
		return fmt.Errorf("major category %q already exists", newName)
	}
	c, err := d.major(oldName)
	if err != nil {
		return err
	}
	c.name = newName
	if major, minor, ok := SplitKey(d.h.liquidity); ok && major == oldName {
		d.h.liquidity = SubKey(newName, minor)
	}
	return nil
}

// SetMajorRatio changes the target ratio of a major category.
func (d *Draft) SetMajorRatio(name string, ratio decimal.Decimal) error {
	if err := validRatio(ratio); err != nil {
		return err
	}
	c, err := d.major(name)
	if err != nil {
		return err
	}
	c.ratio = ratio
	return nil
}

// DeleteMajor removes a major category and all its subcategories.
func (d *Draft) DeleteMajor(name string) error {
	for i := range d.h.majors {
		if d.h.majors[i].name == name {
			d.h.majors = append(d.h.majors[:i], d.h.majors[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("unknown major category %q", name)
}

// AddSubcategory adds a subcategory to an existing major category.
func (d *Draft) AddSubcategory(major, minor string, ratio decimal.Decimal) error {
	if minor == "" {
		return fmt.Errorf("subcategory name cannot be empty")
	}
	if err := validRatio(ratio); err != nil {
		return err
	}
	c, err := d.major(major)
	if err != nil {
		return err
	}
	for _, s := range c.subs {
		if s.name == minor {
			return fmt.Errorf("subcategory %q already exists in %q", minor, major)
		}
	}
	c.subs = append(c.subs, Subcategory{name: minor, ratio: ratio})
	return nil
}

// RenameSubcategory renames a subcategory within its major category.
func (d *Draft) RenameSubcategory(major, oldName, newName string) error {
	if newName == "" {
		return fmt.Errorf("subcategory name cannot be empty")
	}
	c, err := d.major(major)
	if err != nil {
		return err
	}
	for _, s := range c.subs {
		if s.name == newName {
			return fmt.Errorf("subcategory %q already exists in %q", newName, major)
		}
	}
	for i := range c.subs {
		if c.subs[i].name == oldName {
			c.subs[i].name = newName
			if d.h.liquidity == SubKey(major, oldName) {
				d.h.liquidity = SubKey(major, newName)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown subcategory %q in %q", oldName, major)
}

// SetSubcategoryRatio changes the target ratio of a subcategory.
func (d *Draft) SetSubcategoryRatio(major, minor string, ratio decimal.Decimal) error {
	if err := validRatio(ratio); err != nil {
		return err
	}
	c, err := d.major(major)
	if err != nil {
		return err
	}
	for i := range c.subs {
		if c.subs[i].name == minor {
			c.subs[i].ratio = ratio
			return nil
		}
	}
	return fmt.Errorf("unknown subcategory %q in %q", minor, major)
}

// DeleteSubcategory removes a subcategory. A major category always keeps
// at least one subcategory; delete the major instead.
func (d *Draft) DeleteSubcategory(major, minor string) error {
	c, err := d.major(major)
	if err != nil {
		return err
	}
	if len(c.subs) == 1 {
		return fmt.Errorf("cannot delete the last subcategory of %q", major)
	}
	for i := range c.subs {
		if c.subs[i].name == minor {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("unknown subcategory %q in %q", minor, major)
}

// SetLiquidity designates the subcategory excluded from rebalancing
// triggers. The key must resolve in the draft.
func (d *Draft) SetLiquidity(key string) error {
	if !d.h.Has(key) {
		return fmt.Errorf("unknown subcategory key %q", key)
	}
	d.h.liquidity = key
	return nil
}

// Commit validates the draft and returns it as an immutable Hierarchy.
// On failure the error is a *ValidationError naming the violated
// invariant with the exact computed sums, and no state is applied.
func (d *Draft) Commit() (*Hierarchy, error) {
	if err := d.h.Validate(); err != nil {
		return nil, err
	}
	// Hand over the draft's copy; the draft must not be reused after.
	h := d.h
	return &h, nil
}
