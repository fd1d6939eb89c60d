package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	offline bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the holdings with their current valuation" }
func (*holdingsCmd) Usage() string {
	return `reb holdings [-offline]

  Displays every holding with its quantity, latest unit price and market
  value in the reporting currency.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.offline, "offline", false, "use the last stored quotes instead of fetching live ones")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db := store()
	hierarchy, err := db.LoadHierarchy(*owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading targets: %v\n", err)
		return subcommands.ExitFailure
	}
	holdings, err := db.LoadHoldings(*owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	source, err := prices(c.offline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading quotes: %v\n", err)
		return subcommands.ExitFailure
	}

	snapshot := rebalance.NewSnapshot(ctx, holdings, hierarchy, source, *currency)
	printMarkdown(renderer.HoldingsMarkdown(snapshot))
	return subcommands.ExitSuccess
}
