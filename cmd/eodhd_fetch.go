package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/eodhd"
	"github.com/google/subcommands"
)

// eodhdFetchCmd implements the "eodhd fetch" command.
type eodhdFetchCmd struct {
	symbol string
	ticker string
	from   string
	to     string
}

func (*eodhdFetchCmd) Name() string     { return "fetch" }
func (*eodhdFetchCmd) Synopsis() string { return "fetches end of day prices from EODHD" }
func (*eodhdFetchCmd) Usage() string {
	return `eodhd fetch -s <symbol> [-t <ticker>] [-from <date>] [-to <date>]

  Fetches end of day prices from eodhd.com into the price store. Without
  -from, only the days missing since the last stored one are fetched.
  The ticker defaults to the symbol on the configured exchange.

Usage Examples:
$ scanner eodhd fetch -s "NIFTY 50" -t NSEI.INDX -from 2015-01-01
$ scanner eodhd fetch -s INFY
`
}
func (c *eodhdFetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol to store the prices under")
	f.StringVar(&c.ticker, "t", "", "EODHD ticker, CODE.EXCHANGE")
	f.StringVar(&c.from, "from", "", "First day to fetch")
	f.StringVar(&c.to, "to", "", "Last day to fetch. Defaults to today.")
}

func (c *eodhdFetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fail("-s is required")
		return subcommands.ExitUsageError
	}
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
	ticker := c.ticker
	if ticker == "" {
		ticker = eodhd.Ticker(c.symbol, e.cfg.EODHD.Exchange)
	}

	var n int
	if c.from == "" {
		n, err = client.Update(ctx, e.market, c.symbol, ticker)
	} else {
		from, to, perr := c.span()
		if perr != nil {
			fail("%v", perr)
			return subcommands.ExitUsageError
		}
		n, err = client.Fetch(ctx, e.market, c.symbol, ticker, from, to)
	}
	if err != nil {
		fail("could not fetch from eodhd.com: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Fetched %d days of %q from eodhd.com.\n", n, c.symbol)
	return subcommands.ExitSuccess
}

func (c *eodhdFetchCmd) span() (from, to date.Date, err error) {
	if from, err = date.Parse(c.from); err != nil {
		return from, to, fmt.Errorf("parsing -from: %w", err)
	}
	to = date.Today()
	if c.to != "" {
		if to, err = date.Parse(c.to); err != nil {
			return from, to, fmt.Errorf("parsing -to: %w", err)
		}
	}
	return from, to, nil
}
