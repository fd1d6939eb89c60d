package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	code     string
	kind     string
	quantity string
	category string
	lot      string
	note     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a new holding to the profile" }
func (*addCmd) Usage() string {
	return `reb add -category <key> [-code <code>] [-kind etf|fund|cash] [-q <quantity>] [-lot <size>] [-note <text>] <name>

  Adds a holding under a unique name. The category is the fully
  qualified subcategory key, e.g. "equities-domestic".

Usage Examples:
$ reb add -code 510300 -kind etf -q 1200 -category equities-domestic "CSI 300 ETF"
$ reb add -kind cash -q 50000 -category flexible-cash "Bank savings"
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.code, "code", "", "Instrument code used to fetch quotes")
	f.StringVar(&c.kind, "kind", "etf", "Instrument kind: etf, fund or cash")
	f.StringVar(&c.quantity, "q", "0", "Quantity of units held")
	f.StringVar(&c.category, "category", "", "Subcategory key the holding maps to")
	f.StringVar(&c.lot, "lot", "", "Trade lot size, defaults to 100 for etf")
	f.StringVar(&c.note, "note", "", "Free-form note")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one holding name\n")
		return subcommands.ExitUsageError
	}

	h, err := c.holding(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	db := store()
	holdings, err := db.LoadHoldings(*owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := holdings.Add(h); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := db.SaveHoldings(*owner, holdings); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully added holding %q\n", h.Name)
	return subcommands.ExitSuccess
}

// holding builds the Holding from the flags.
func (c *addCmd) holding(name string) (rebalance.Holding, error) {
	kind, err := rebalance.ParseInstrumentKind(c.kind)
	if err != nil {
		return rebalance.Holding{}, err
	}
	quantity, err := parseQuantity(c.quantity)
	if err != nil {
		return rebalance.Holding{}, fmt.Errorf("invalid quantity %q: %w", c.quantity, err)
	}
	h := rebalance.Holding{
		Name:     name,
		Code:     c.code,
		Kind:     kind,
		Quantity: quantity,
		Category: c.category,
		Note:     c.note,
	}
	if c.lot != "" {
		lot, err := parseQuantity(c.lot)
		if err != nil {
			return rebalance.Holding{}, fmt.Errorf("invalid lot size %q: %w", c.lot, err)
		}
		h.LotSize = lot
	}
	return h, h.Validate()
}

func parseQuantity(s string) (rebalance.Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return rebalance.Quantity{}, err
	}
	return rebalance.Q(d), nil
}
