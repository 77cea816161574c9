package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/watcher"
	"github.com/google/subcommands"
)

// watchCmd holds the flags for the 'watch' subcommand.
type watchCmd struct {
	once bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "apply the strategies to the stored portfolios on a schedule" }
func (*watchCmd) Usage() string {
	return `scanner watch [-once]

  On the watch.schedule cron expression, checks every configured strategy
  against the benchmark history and applies those that trigger to the
  portfolios following them. When watch.ticker is set, the benchmark prices
  are first updated from EODHD. Runs until interrupted.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.once, "once", false, "Run once for today and exit")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		fail("opening environment: %v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	cfg := watcher.Config{Schedule: e.cfg.Watch.Schedule, Benchmark: e.cfg.Watch.Benchmark}
	if ticker := e.cfg.Watch.Ticker; ticker != "" {
		client, err := e.eodhd()
		if err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
		cfg.Refresh = func(ctx context.Context) error {
			_, err := client.Update(ctx, e.market, cfg.Benchmark, ticker)
			return err
		}
	}
	w := watcher.New(cfg, e.market, e.portfolios, e.registry, e.log)

	if c.once {
		res, err := w.Run(ctx, date.Today())
		fmt.Printf("triggered: %s, portfolios updated: %d\n", strings.Join(res.Triggered, ", "), res.Applied)
		if err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := w.Start(ctx); err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}
	<-ctx.Done()
	w.Stop()
	return subcommands.ExitSuccess
}
