package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

type resetCategoriesCmd struct{}

func (*resetCategoriesCmd) Name() string     { return "reset-categories" }
func (*resetCategoriesCmd) Synopsis() string { return "restore the built-in target allocation" }
func (*resetCategoriesCmd) Usage() string {
	return `reb reset-categories

  Replaces the profile's target allocation with the built-in default.
  Holdings are left untouched.
`
}

func (*resetCategoriesCmd) SetFlags(f *flag.FlagSet) {}

func (c *resetCategoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := store().SaveHierarchy(*owner, rebalance.DefaultHierarchy()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving targets: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully restored the default target allocation\n")
	return subcommands.ExitSuccess
}
