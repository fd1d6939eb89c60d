package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	json    bool
	offline bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the allocation report and rebalancing plan" }
func (*reportCmd) Usage() string {
	return `reb report [-json] [-offline]

  Values the holdings, compares actual allocation against the targets,
  and suggests lot-aware trades for every category off target by more
  than the tolerance.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the report as JSON instead of markdown")
	f.BoolVar(&c.offline, "offline", false, "use the last stored quotes instead of fetching live ones")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := newReport(ctx, c.offline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating report: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.ReportMarkdown(report))
	return subcommands.ExitSuccess
}

// newReport loads the profile and runs the full pipeline.
func newReport(ctx context.Context, offline bool) (*rebalance.Report, error) {
	db := store()
	hierarchy, err := db.LoadHierarchy(*owner)
	if err != nil {
		return nil, err
	}
	holdings, err := db.LoadHoldings(*owner)
	if err != nil {
		return nil, err
	}
	source, err := prices(offline)
	if err != nil {
		return nil, err
	}
	return rebalance.NewReport(ctx, *owner, holdings, hierarchy, source, *currency), nil
}
