package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// checkCmd validates the profile without valuing it.
type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the target allocation and the holdings mapping" }
func (*checkCmd) Usage() string {
	return `reb check

  Verifies that the target ratios sum up at both levels and that every
  holding maps to a known subcategory. Exits with a failure status when
  anything is off.
`
}

func (*checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	var errs error
	if err := hierarchy.Validate(); err != nil {
		errs = errors.Join(errs, err)
	}
	for h := range holdings.All() {
		if !hierarchy.Has(h.Category) {
			errs = errors.Join(errs, fmt.Errorf("holding %q maps to unknown category %q", h.Name, h.Category))
		}
	}

	if errs != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", errs)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ targets and holdings are consistent\n")
	return subcommands.ExitSuccess
}
