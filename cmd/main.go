package cmd

import (
	"flag"
	"strings"

	"github.com/adityazagade/stockscanner/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Commands lists the scanner commands by group.
var Commands = map[string][]subcommands.Command{
	"backtest":      {&backtestCmd{}, &strategiesCmd{}},
	"portfolios":    {&createCmd{}, &portfolioCmd{}, &tradesCmd{}, &watchCmd{}},
	"market data":   {&importCmd{}, &eodhdCmd{}},
	"documentation": {&topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	for group, list := range Commands {
		for _, cmd := range list {
			c.Register(cmd, group)
		}
	}
}

// strategyNames are the names a -s flag accepts.
var strategyNames = predict.Set{"BuyAndHold", "SIP", "MarketMovementBasedAllocation", "PEBasedAllocation"}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{"help": {}, "flags": {}, "commands": {}},
		Flags: flags(flag.CommandLine),
	}
	for _, list := range Commands {
		for _, cmd := range list {
			root.Sub[cmd.Name()] = completion(cmd)
		}
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(append(topics, "readme"))
	}
	root.Sub["eodhd"].Sub = map[string]*complete.Command{
		"fetch":  completion(&eodhdFetchCmd{}),
		"search": completion(&eodhdSearchCmd{}),
	}
	return root
}

func completion(cmd subcommands.Command) *complete.Command {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	return &complete.Command{Flags: flags(fs)}
}

// flags predicts the flag values from their names.
func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[f.Name] = nil // takes no value
			return
		}
		switch {
		case f.Name == "s" && strings.HasPrefix(f.Usage, "Strategy"):
			m[f.Name] = strategyNames
		case f.Name == "config":
			m[f.Name] = predict.Files("*.yaml")
		case f.Name == "prices", f.Name == "pe", f.Name == "o":
			m[f.Name] = predict.Files("*.csv")
		default:
			m[f.Name] = predict.Something
		}
	})
	return m
}
