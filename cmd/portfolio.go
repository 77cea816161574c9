package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/renderer"
	"github.com/adityazagade/stockscanner/strategy"
	"github.com/google/subcommands"
)

// createCmd holds the flags for the 'create' subcommand.
type createCmd struct {
	name        string
	description string
	strategy    string
	capital     float64
	date        string
	benchmark   string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a portfolio following a strategy" }
func (*createCmd) Usage() string {
	return `scanner create -name <name> -s <strategy> [-capital <amount>] [-d <date>]

  Builds the initial portfolio of a strategy and saves it in the portfolio
  store, where the watcher keeps applying the strategy to it.

Usage Examples:
$ scanner create -name kids -s SIP
$ scanner create -name retirement -s PEBasedAllocation -capital 500000
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Portfolio name")
	f.StringVar(&c.description, "description", "", "Portfolio description")
	f.StringVar(&c.strategy, "s", "", "Strategy the portfolio follows")
	f.Float64Var(&c.capital, "capital", 0, "Initial capital. Defaults to backtest.capital.")
	f.StringVar(&c.date, "d", date.Today().String(), "Creation date")
	f.StringVar(&c.benchmark, "b", "", "Benchmark symbol. Defaults to watch.benchmark.")
}

func (c *createCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.strategy == "" {
		fail("-name and -s are required")
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.date)
	if err != nil {
		fail("parsing date: %v", err)
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		fail("opening environment: %v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	s, err := e.registry.Get(c.strategy)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	setup := strategy.Setup{
		Benchmark:    e.cfg.Watch.Benchmark,
		Capital:      e.cfg.Backtest.Capital,
		Currency:     e.cfg.Currency,
		InterestRate: e.cfg.InterestRate,
	}
	if c.benchmark != "" {
		setup.Benchmark = c.benchmark
	}
	if c.capital > 0 {
		setup.Capital = c.capital
	}
	quotes, err := stockscanner.LoadQuotes(e.market, setup.Benchmark)
	if err != nil {
		fail("loading benchmark: %v", err)
		return subcommands.ExitFailure
	}
	bp, err := s.Prepare(setup, on, quotes.Until(on))
	if err != nil {
		fail("preparing %s: %v", s.Name(), err)
		return subcommands.ExitFailure
	}
	bp.Name, bp.Description = c.name, c.description
	p, err := stockscanner.Build(e.market, bp)
	if err != nil {
		e.log.Error().Err(err).Str("strategy", s.Name()).Msg("portfolio creation failed")
		fail("%v", err)
		return subcommands.ExitFailure
	}
	p.Apply(s)
	if err := e.portfolios.Save(p); err != nil {
		fail("saving portfolio: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Println(p.ID)
	return subcommands.ExitSuccess
}

// portfolioCmd holds the flags for the 'portfolio' subcommand.
type portfolioCmd struct {
	id   string
	date string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show the stored portfolios" }
func (*portfolioCmd) Usage() string {
	return `scanner portfolio [-id <id>] [-d <date>]

  Without -id, lists the stored portfolios. With -id, displays a portfolio's
  assets, trades and change log valued on a date.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio to display")
	f.StringVar(&c.date, "d", date.Today().String(), "Valuation date")
}

func (c *portfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fail("parsing date: %v", err)
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		fail("opening environment: %v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	if c.id == "" {
		list, err := e.portfolios.LoadAll()
		if err != nil {
			fail("loading portfolios: %v", err)
			return subcommands.ExitFailure
		}
		rows := make([][]string, 0, len(list))
		for _, p := range list {
			value := "-"
			if v, err := p.Value(on); err == nil {
				value = v.String()
			}
			rows = append(rows, []string{p.ID, p.Name, p.StrategyName(), value, p.TotalInvested().String()})
		}
		printTable(os.Stdout, []string{"ID", "Name", "Strategy", "Value", "Invested"}, rows)
		return subcommands.ExitSuccess
	}

	p, err := e.portfolios.Load(c.id)
	if err != nil {
		fail("loading portfolio: %v", err)
		return subcommands.ExitFailure
	}
	md, err := renderer.PortfolioMarkdown(p, on)
	if err != nil {
		fail("rendering portfolio: %v", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// tradesCmd holds the flags for the 'trades' subcommand.
type tradesCmd struct {
	id  string
	all bool
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "print the trade book of a portfolio" }
func (*tradesCmd) Usage() string {
	return `scanner trades -id <id> [-all]

  Prints the equity trades of a stored portfolio, or the trades of every
  asset with -all.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio")
	f.BoolVar(&c.all, "all", false, "Include the trades of every asset")
}

func (c *tradesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fail("-id is required")
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		fail("opening environment: %v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	p, err := e.portfolios.Load(c.id)
	if err != nil {
		fail("loading portfolio: %v", err)
		return subcommands.ExitFailure
	}
	trades := p.Trades()
	if c.all {
		trades = p.AllTrades()
	}
	rows := make([][]string, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, []string{t.Date.String(), string(t.Action), t.Symbol, t.Quantity.Round(4).String(), t.Price.String(), t.Amount().String()})
	}
	printTable(os.Stdout, []string{"Date", "Action", "Symbol", "Quantity", "Price", "Amount"}, rows)
	return subcommands.ExitSuccess
}
