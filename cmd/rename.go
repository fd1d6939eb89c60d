package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type renameCmd struct{}

func (*renameCmd) Name() string     { return "rename" }
func (*renameCmd) Synopsis() string { return "rename a holding" }
func (*renameCmd) Usage() string {
	return `reb rename <old-name> <new-name>

  Renames a holding, keeping all its other fields.
`
}

func (*renameCmd) SetFlags(f *flag.FlagSet) {}

func (c *renameCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Error: expected <old-name> <new-name>\n")
		return subcommands.ExitUsageError
	}
	oldName, newName := f.Arg(0), f.Arg(1)

	db := store()
	holdings, err := db.LoadHoldings(*owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	h, ok := holdings.Get(oldName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown holding %q\n", oldName)
		return subcommands.ExitFailure
	}
	h.Name = newName
	if err := holdings.Rename(oldName, h); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := db.SaveHoldings(*owner, holdings); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully renamed holding %q to %q\n", oldName, newName)
	return subcommands.ExitSuccess
}
