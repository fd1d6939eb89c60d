package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

// updateCmd fetches live quotes and stores them for offline use.
type updateCmd struct{}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch and store the latest quotes for all holdings" }
func (*updateCmd) Usage() string {
	return `reb update

  Fetches the latest quote for every priced holding and stores them in
  the profile, so that later reports can run offline.
`
}

func (*updateCmd) SetFlags(f *flag.FlagSet) {}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db := store()
	holdings, err := db.LoadHoldings(*owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	source := rebalance.NewEastmoney(*currency)
	quotes := make(rebalance.Quotes)
	var errs error
	for h := range holdings.All() {
		if h.Kind == rebalance.Cash || h.Code == "" {
			continue
		}
		price, err := source.Price(ctx, h.Code, h.Kind)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		quotes[h.Code] = price
	}

	if len(quotes) > 0 {
		if err := db.SaveQuotes(*owner, quotes); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving quotes: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if errs != nil {
		fmt.Fprintf(os.Stderr, "Warning: some quotes could not be fetched: %v\n", errs)
	}

	fmt.Printf("Successfully updated %d quotes\n", len(quotes))
	return subcommands.ExitSuccess
}
