// Package cmd implements the CLI application to manage a rebalancing profile.
package cmd

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

// Commands lists every subcommand. A main package registers them on a
// commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&reportCmd{},
	&holdingsCmd{},
	&addCmd{},
	&editCmd{},
	&removeCmd{},
	&renameCmd{},
	&categoriesCmd{},
	&categoryCmd{},
	&resetCategoriesCmd{},
	&checkCmd{},
	&updateCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataPath = flag.String("data", defaultDataPath(), "Path to the profile data folder")
var owner = flag.String("owner", envOr("REBALANCE_OWNER", "default"), "Profile name, each owner has its own holdings and targets")
var currency = flag.String("currency", envOr("REBALANCE_CURRENCY", "CNY"), "Reporting currency")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataPath() string {
	if v := os.Getenv("REBALANCE_DATA"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rebalance"
	}
	return filepath.Join(home, ".rebalance")
}

// store returns the profile store rooted at the app data folder.
func store() *rebalance.DirStore { return rebalance.NewDirStore(*dataPath) }

// prices returns the quote source for valuations: live quotes by
// default, the last stored quotes when offline.
func prices(offline bool) (rebalance.PriceSource, error) {
	if !offline {
		return rebalance.NewEastmoney(*currency), nil
	}
	return store().LoadQuotes(*owner)
}
