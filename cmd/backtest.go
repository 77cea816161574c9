package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/adityazagade/stockscanner/backtest"
	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/renderer"
	"github.com/google/subcommands"
)

// backtestCmd holds the flags for the 'backtest' subcommand.
type backtestCmd struct {
	strategy  string
	start     string
	capital   float64
	benchmark string
	output    string
	noTrades  bool
	save      bool
}

func (*backtestCmd) Name() string     { return "backtest" }
func (*backtestCmd) Synopsis() string { return "replay a strategy over the benchmark history" }
func (*backtestCmd) Usage() string {
	return `scanner backtest [-s <strategy>] [-d <start>] [-capital <amount>] [-b <benchmark>] [-o <trace.csv>]

  Builds the strategy's initial portfolio on the start date and applies the
  strategy each day it triggers, until the last day of the benchmark history.
  Flags default to the backtest section of the configuration.

Usage Examples:
$ scanner backtest -s SIP -d 2015-01-01
$ scanner backtest -s PEBasedAllocation -o trace.csv
`
}

func (c *backtestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "s", "", "Strategy to replay. Defaults to backtest.strategy_name.")
	f.StringVar(&c.start, "d", "", "Start date. Defaults to backtest.start_date.")
	f.Float64Var(&c.capital, "capital", 0, "Initial capital. Defaults to backtest.capital.")
	f.StringVar(&c.benchmark, "b", "", "Benchmark symbol. Defaults to backtest.benchmark.")
	f.StringVar(&c.output, "o", "", "Write the daily value trace to a CSV file.")
	f.BoolVar(&c.noTrades, "notrades", false, "Do not render the trade book.")
	f.BoolVar(&c.save, "save", false, "Save the final portfolio in the portfolio store.")
}

func (c *backtestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		fail("opening environment: %v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	req := backtest.Request{
		Start:        e.cfg.Backtest.StartDate,
		Benchmark:    e.cfg.Backtest.Benchmark,
		Capital:      e.cfg.Backtest.Capital,
		Currency:     e.cfg.Currency,
		InterestRate: e.cfg.InterestRate,
	}
	if c.start != "" {
		if req.Start, err = date.Parse(c.start); err != nil {
			fail("parsing start date: %v", err)
			return subcommands.ExitUsageError
		}
	}
	if c.capital > 0 {
		req.Capital = c.capital
	}
	if c.benchmark != "" {
		req.Benchmark = c.benchmark
	}
	name := c.strategy
	if name == "" {
		name = e.cfg.Backtest.StrategyName
	}

	report, err := backtest.New(e.market, e.registry, e.log).RunNamed(name, req)
	if err != nil {
		fail("running backtest: %v", err)
		return subcommands.ExitFailure
	}

	if c.output != "" {
		if err := writeTrace(c.output, report); err != nil {
			fail("writing trace: %v", err)
			return subcommands.ExitFailure
		}
	}
	if c.save {
		if err := e.portfolios.Save(report.Portfolio); err != nil {
			fail("saving portfolio: %v", err)
			return subcommands.ExitFailure
		}
		e.log.Info().Str("id", report.Portfolio.ID).Msg("portfolio saved")
	}

	md, err := renderer.BacktestMarkdown(report, renderer.BacktestRenderOptions{SkipTrades: c.noTrades})
	if err != nil {
		fail("rendering report: %v", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

func writeTrace(filename string, report *backtest.Report) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := report.WriteCSV(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
