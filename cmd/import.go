package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/adityazagade/stockscanner/market"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	symbol     string
	prices     string
	valuations string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import NSE CSV exports into the price store" }
func (*importCmd) Usage() string {
	return `scanner import -s <symbol> -prices <file.csv> [-pe <file.csv>]

  Imports a historical price export (Date, Open, High, Low, Close, Shares
  Traded, Turnover) and optionally a valuation export (Date, P/E, P/B, Div
  Yield) into the configured price store. Rows already stored for the same
  days are replaced.

Usage Examples:
$ scanner import -s "NIFTY 50" -prices nifty50.csv -pe nifty50_pe.csv
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol to import into")
	f.StringVar(&c.prices, "prices", "", "Price CSV file")
	f.StringVar(&c.valuations, "pe", "", "Valuation CSV file")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.prices == "" {
		fail("-s and -prices are required")
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		fail("opening environment: %v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	prices, err := os.Open(c.prices)
	if err != nil {
		fail("opening prices: %v", err)
		return subcommands.ExitFailure
	}
	defer prices.Close()

	var valuations io.Reader
	if c.valuations != "" {
		file, err := os.Open(c.valuations)
		if err != nil {
			fail("opening valuations: %v", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		valuations = file
	}

	n, err := market.Import(e.market, c.symbol, prices, valuations)
	if err != nil {
		fail("importing %q: %v", c.symbol, err)
		return subcommands.ExitFailure
	}
	e.log.Info().Str("symbol", c.symbol).Int("rows", n).Msg("imported")
	fmt.Fprintf(os.Stderr, "✅ Imported %d rows into %q.\n", n, c.symbol)
	return subcommands.ExitSuccess
}
