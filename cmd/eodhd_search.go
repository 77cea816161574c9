package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

// eodhdSearchCmd implements the "eodhd search" command.
type eodhdSearchCmd struct{}

func (*eodhdSearchCmd) Name() string     { return "search" }
func (*eodhdSearchCmd) Synopsis() string { return "searches for instruments on EODHD" }
func (*eodhdSearchCmd) Usage() string {
	return `eodhd search <search term>

  Searches instruments by name, code or ISIN via the EOD Historical Data API
  and prints their tickers, ready for 'eodhd fetch -t'.
`
}

func (*eodhdSearchCmd) SetFlags(f *flag.FlagSet) {}

func (*eodhdSearchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	term := strings.Join(f.Args(), " ")

	e, err := openEnv()
	if err != nil {
		fail("opening environment: %v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()
	client, err := e.eodhd()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	results, err := client.Search(ctx, term)
	if err != nil {
		fail("searching %q: %v", term, err)
		return subcommands.ExitFailure
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Ticker(), r.Name, r.Type, r.Currency, r.ISIN, fmt.Sprintf("%.2f", r.PreviousClose), r.PreviousCloseDate})
	}
	printTable(os.Stdout, []string{"Ticker", "Name", "Type", "Currency", "ISIN", "Close", "On"}, rows)
	return subcommands.ExitSuccess
}
