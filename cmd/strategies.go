package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/adityazagade/stockscanner/strategy"
	"github.com/google/subcommands"
)

type strategiesCmd struct{}

func (*strategiesCmd) Name() string     { return "strategies" }
func (*strategiesCmd) Synopsis() string { return "list the configured strategies" }
func (*strategiesCmd) Usage() string {
	return `scanner strategies

  Lists the strategies enabled in the strategies section of the configuration.
`
}

func (*strategiesCmd) SetFlags(f *flag.FlagSet) {}

func (*strategiesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		fail("opening environment: %v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	var rows [][]string
	for _, s := range e.registry.All() {
		rows = append(rows, []string{s.Name(), describe(s)})
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No strategy configured.")
		return subcommands.ExitSuccess
	}
	printTable(os.Stdout, []string{"Strategy", "Parameters"}, rows)
	return subcommands.ExitSuccess
}

// describe summarizes the parameters of a strategy.
func describe(s strategy.Strategy) string {
	switch s := s.(type) {
	case *strategy.SIP:
		return fmt.Sprintf("%.2f %s from %s", s.Amount(), s.Frequency(), s.Start())
	case *strategy.MarketMovement:
		return fmt.Sprintf("rebalance on a %.2f%% close move", s.Threshold()*100)
	case *strategy.PEBased:
		return fmt.Sprintf("rebalance on a %.2f%% P/E move", s.Threshold()*100)
	default:
		return "-"
	}
}
