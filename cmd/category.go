package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// categoriesCmd displays the target allocation tree.
type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "display the target allocation tree" }
func (*categoriesCmd) Usage() string {
	return `reb categories

  Displays the two-level target allocation with per-category ratios.
`
}

func (*categoriesCmd) SetFlags(f *flag.FlagSet) {}

func (c *categoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	hierarchy, err := store().LoadHierarchy(*owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading targets: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HierarchyMarkdown(hierarchy))
	return subcommands.ExitSuccess
}

// categoryCmd edits the target allocation: set, add, rename, remove,
// liquidity.
type categoryCmd struct{}

func (*categoryCmd) Name() string     { return "category" }
func (*categoryCmd) Synopsis() string { return "edit the target allocation" }
func (*categoryCmd) Usage() string {
	return `reb category set <key> <ratio>
reb category add <key> <ratio>
reb category rename <old-key> <new-key>
reb category remove <key>
reb category liquidity <key>

  Edits the target allocation. A key is either a major category name
  ("bonds") or a fully qualified subcategory key ("bonds-rates").
  Ratios are fractions of the total portfolio ("0.2" or "20%").
  The edit is rejected when the resulting allocation does not sum up.

Usage Examples:
$ reb category set bonds 0.5
$ reb category add equities-smallcap 10%
$ reb category liquidity flexible-cash
`
}

func (*categoryCmd) SetFlags(f *flag.FlagSet) {}

func (c *categoryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Error: expected a verb and a key\n")
		return subcommands.ExitUsageError
	}
	verb := f.Arg(0)

	db := store()
	hierarchy, err := db.LoadHierarchy(*owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading targets: %v\n", err)
		return subcommands.ExitFailure
	}

	draft := hierarchy.Edit()
	if err := apply(hierarchy, draft, verb, f.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	edited, err := draft.Commit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: edit rejected: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := db.SaveHierarchy(*owner, edited); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving targets: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully updated target allocation\n")
	return subcommands.ExitSuccess
}

// apply translates one verb into draft operations. The current
// hierarchy disambiguates major names from subcategory keys.
func apply(h *rebalance.Hierarchy, draft *rebalance.Draft, verb string, args []string) error {
	switch verb {
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("set expects <key> <ratio>")
		}
		ratio, err := parseRatio(args[1])
		if err != nil {
			return err
		}
		if _, ok := h.Major(args[0]); ok {
			return draft.SetMajorRatio(args[0], ratio)
		}
		major, minor, ok := rebalance.SplitKey(args[0])
		if !ok {
			return fmt.Errorf("unknown category %q", args[0])
		}
		return draft.SetSubcategoryRatio(major, minor, ratio)

	case "add":
		if len(args) != 2 {
			return fmt.Errorf("add expects <key> <ratio>")
		}
		ratio, err := parseRatio(args[1])
		if err != nil {
			return err
		}
		if major, minor, ok := rebalance.SplitKey(args[0]); ok {
			if _, exists := h.Major(major); exists {
				return draft.AddSubcategory(major, minor, ratio)
			}
		}
		return draft.AddMajor(args[0], ratio)

	case "rename":
		if len(args) != 2 {
			return fmt.Errorf("rename expects <old-key> <new-key>")
		}
		if _, ok := h.Major(args[0]); ok {
			return draft.RenameMajor(args[0], args[1])
		}
		oldMajor, oldMinor, ok := rebalance.SplitKey(args[0])
		if !ok {
			return fmt.Errorf("unknown category %q", args[0])
		}
		newMajor, newMinor, ok := rebalance.SplitKey(args[1])
		if !ok || newMajor != oldMajor {
			return fmt.Errorf("a subcategory can only be renamed within %q", oldMajor)
		}
		return draft.RenameSubcategory(oldMajor, oldMinor, newMinor)

	case "remove":
		if len(args) != 1 {
			return fmt.Errorf("remove expects <key>")
		}
		if _, ok := h.Major(args[0]); ok {
			return draft.DeleteMajor(args[0])
		}
		major, minor, ok := rebalance.SplitKey(args[0])
		if !ok {
			return fmt.Errorf("unknown category %q", args[0])
		}
		return draft.DeleteSubcategory(major, minor)

	case "liquidity":
		if len(args) != 1 {
			return fmt.Errorf("liquidity expects <key>")
		}
		return draft.SetLiquidity(args[0])

	default:
		return fmt.Errorf("unknown verb %q, expected set, add, rename, remove or liquidity", verb)
	}
}

// parseRatio reads a fraction, either plain ("0.2") or percent ("20%").
func parseRatio(s string) (decimal.Decimal, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		d, err := decimal.NewFromString(p)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid ratio %q: %w", s, err)
		}
		return d.Div(decimal.NewFromInt(100)), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	return d, nil
}
