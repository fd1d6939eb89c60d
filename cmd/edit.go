package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

// editCmd holds the flags for the 'edit' subcommand.
type editCmd struct {
	code     string
	kind     string
	quantity string
	category string
	lot      string
	note     string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit fields of an existing holding" }
func (*editCmd) Usage() string {
	return `reb edit [-code <code>] [-kind etf|fund|cash] [-q <quantity>] [-category <key>] [-lot <size>] [-note <text>] <name>

  Updates the given fields of a holding, leaving the others untouched.

Usage Examples:
$ reb edit -q 1500 "CSI 300 ETF"
$ reb edit -category bonds-credit "Corporate bond fund"
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.code, "code", "", "Instrument code used to fetch quotes")
	f.StringVar(&c.kind, "kind", "", "Instrument kind: etf, fund or cash")
	f.StringVar(&c.quantity, "q", "", "Quantity of units held")
	f.StringVar(&c.category, "category", "", "Subcategory key the holding maps to")
	f.StringVar(&c.lot, "lot", "", "Trade lot size")
	f.StringVar(&c.note, "note", "", "Free-form note")
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one holding name\n")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	db := store()
	holdings, err := db.LoadHoldings(*owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	h, ok := holdings.Get(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown holding %q\n", name)
		return subcommands.ExitFailure
	}

	// only flags explicitly set on the command line are applied.
	var flagErr error
	f.Visit(func(fl *flag.Flag) {
		if flagErr != nil {
			return
		}
		switch fl.Name {
		case "code":
			h.Code = c.code
		case "kind":
			h.Kind, flagErr = rebalance.ParseInstrumentKind(c.kind)
		case "q":
			h.Quantity, flagErr = parseQuantity(c.quantity)
		case "category":
			h.Category = c.category
		case "lot":
			h.LotSize, flagErr = parseQuantity(c.lot)
		case "note":
			h.Note = c.note
		}
	})
	if flagErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", flagErr)
		return subcommands.ExitUsageError
	}

	if err := holdings.Update(h); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := db.SaveHoldings(*owner, holdings); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully updated holding %q\n", name)
	return subcommands.ExitSuccess
}
