// Command scanner backtests asset allocation strategies and applies them to
// live portfolios.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/adityazagade/stockscanner/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	// exits when invoked by the shell for completion.
	cmd.Completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
