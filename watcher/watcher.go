// Package watcher applies the registered strategies to the stored portfolios
// following them, on a cron schedule.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/logger"
	"github.com/adityazagade/stockscanner/store"
	"github.com/adityazagade/stockscanner/strategy"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Config configures a Watcher.
type Config struct {
	// Schedule is a standard cron spec, "0 18 * * 1-5" runs at 6pm on weekdays.
	Schedule  string
	Benchmark string
	// Refresh, if set, updates the market data before each run.
	Refresh func(ctx context.Context) error
}

// Watcher runs the strategies against the latest benchmark history.
type Watcher struct {
	cfg        Config
	src        stockscanner.PriceSource
	portfolios stockscanner.PortfolioStore
	registry   *strategy.Registry
	log        zerolog.Logger
	cron       *cron.Cron
	today      func() date.Date

	mu    sync.Mutex // one run at a time
	armed map[string]bool
}

// New returns a watcher. It does nothing until started.
func New(cfg Config, src stockscanner.PriceSource, portfolios stockscanner.PortfolioStore, registry *strategy.Registry, log zerolog.Logger) *Watcher {
	return &Watcher{
		cfg:        cfg,
		src:        src,
		portfolios: portfolios,
		registry:   registry,
		log:        logger.Component(log, "watcher"),
		cron:       cron.New(),
		today:      date.Today,
		armed:      make(map[string]bool),
	}
}

// Start schedules the runs.
func (w *Watcher) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.cfg.Schedule, func() {
		if _, err := w.Run(ctx, w.today()); err != nil {
			w.log.Error().Err(err).Msg("run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", w.cfg.Schedule, err)
	}
	w.cron.Start()
	w.log.Info().Str("schedule", w.cfg.Schedule).Str("benchmark", w.cfg.Benchmark).Msg("watcher started")
	return nil
}

// Stop waits for the running job, if any, and stops the schedule.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	w.log.Info().Msg("watcher stopped")
}

// Result is the outcome of a run.
type Result struct {
	Triggered []string // strategies that triggered
	Applied   int      // portfolios updated
}

// Run checks every strategy on a day and applies those that trigger to the
// portfolios following them, which are then saved. A failing strategy does
// not stop the others, every failure is returned.
func (w *Watcher) Run(ctx context.Context, on date.Date) (Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var res Result
	if w.cfg.Refresh != nil {
		if err := w.cfg.Refresh(ctx); err != nil {
			w.log.Warn().Err(err).Msg("market data refresh failed")
		}
	}
	quotes, err := stockscanner.LoadQuotes(w.src, w.cfg.Benchmark)
	if err != nil {
		return res, err
	}
	history := quotes.Until(on)

	var errs []error
	for _, s := range w.registry.All() {
		log := w.log.With().Str("strategy", s.Name()).Str("date", on.String()).Logger()
		if err := w.arm(s, on, history); err != nil {
			log.Error().Err(err).Msg("strategy not armed")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		triggered, err := s.Triggered(on, history)
		if err != nil {
			log.Error().Err(err).Msg("trigger check failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if !triggered {
			log.Debug().Msg("not triggered")
			continue
		}
		res.Triggered = append(res.Triggered, s.Name())
		n, err := w.apply(s, on, history)
		res.Applied += n
		if err != nil {
			log.Error().Err(err).Msg("apply failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		log.Info().Int("portfolios", n).Msg("strategy applied")
	}
	return res, errors.Join(errs...)
}

// arm prepares a strategy the first time it is seen, so that it starts
// from the current market state.
func (w *Watcher) arm(s strategy.Strategy, on date.Date, history stockscanner.Quotes) error {
	if w.armed[s.Name()] {
		return nil
	}
	if _, err := s.Prepare(strategy.Setup{Benchmark: w.cfg.Benchmark}, on, history); err != nil {
		return fmt.Errorf("arming: %w", err)
	}
	w.armed[s.Name()] = true
	return nil
}

// apply runs the strategy on every portfolio following it and saves them.
func (w *Watcher) apply(s strategy.Strategy, on date.Date, history stockscanner.Quotes) (int, error) {
	portfolios, err := store.FollowingStrategy(w.portfolios, s.Name())
	if err != nil {
		return 0, err
	}
	n := 0
	var errs []error
	for _, p := range portfolios {
		p.Apply(s)
		if err := s.Apply(on, history, p); err != nil {
			errs = append(errs, fmt.Errorf("portfolio %q: %w", p.Name, err))
			continue
		}
		if err := w.portfolios.Save(p); err != nil {
			errs = append(errs, fmt.Errorf("portfolio %q: %w", p.Name, err))
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}
