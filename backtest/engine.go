// Package backtest replays a strategy over the history of a benchmark and
// records the value of the portfolio it drives.
package backtest

import (
	"fmt"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/logger"
	"github.com/adityazagade/stockscanner/strategy"
	"github.com/rs/zerolog"
)

// Engine runs backtests against a price source.
type Engine struct {
	src      stockscanner.PriceSource
	registry *strategy.Registry
	log      zerolog.Logger
}

// New returns an engine reading market data from src and resolving strategy
// names through registry.
func New(src stockscanner.PriceSource, registry *strategy.Registry, log zerolog.Logger) *Engine {
	return &Engine{src: src, registry: registry, log: logger.Component(log, "backtest")}
}

// Request describes a backtest.
type Request struct {
	Strategy     strategy.Strategy
	Start        date.Date
	Benchmark    string
	Capital      float64
	Currency     string
	InterestRate float64
}

// RunNamed runs a backtest of the strategy registered under name.
func (e *Engine) RunNamed(name string, req Request) (*Report, error) {
	s, err := e.registry.Get(name)
	if err != nil {
		return nil, err
	}
	req.Strategy = s
	return e.Run(req)
}

// Run replays the benchmark history from the start day: every trading day
// the portfolio value is recorded, then the strategy is applied if it
// triggers. Any failure aborts the run.
func (e *Engine) Run(req Request) (*Report, error) {
	report, err := e.run(req)
	if err != nil {
		e.log.Error().Err(err).Str("benchmark", req.Benchmark).Str("start", req.Start.String()).Msg("backtest failed")
		return nil, err
	}
	return report, nil
}

func (e *Engine) run(req Request) (*Report, error) {
	if req.Strategy == nil {
		return nil, fmt.Errorf("backtest without strategy: %w", stockscanner.ErrStrategyNotFound)
	}
	if req.Currency == "" {
		req.Currency = stockscanner.DefaultCurrency
	}
	quotes, err := stockscanner.LoadQuotes(e.src, req.Benchmark)
	if err != nil {
		return nil, err
	}
	start, err := snap(quotes, req.Start)
	if err != nil {
		return nil, err
	}
	log := e.log.With().Str("strategy", req.Strategy.Name()).Logger()
	log.Info().Str("requested", req.Start.String()).Str("start", start.String()).Msg("backtest started")

	setup := strategy.Setup{
		Benchmark:    req.Benchmark,
		Capital:      req.Capital,
		Currency:     req.Currency,
		InterestRate: req.InterestRate,
	}
	bp, err := req.Strategy.Prepare(setup, start, quotes.Until(start))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", stockscanner.ErrPortfolioCreation, req.Strategy.Name(), err)
	}
	p, err := stockscanner.Build(e.src, bp)
	if err != nil {
		return nil, err
	}
	p.Apply(req.Strategy)

	report := newReport(p, req.Benchmark)
	first := len(quotes) - len(quotes.Since(start))
	for k := first; k < len(quotes); k++ {
		on := quotes[k].Date
		history := quotes[:k+1]
		if err := report.track(on, quotes[k].Close); err != nil {
			return nil, err
		}
		triggered, err := req.Strategy.Triggered(on, history)
		if err != nil {
			return nil, fmt.Errorf("%s on %s: %w", req.Strategy.Name(), on, err)
		}
		if !triggered {
			continue
		}
		if err := req.Strategy.Apply(on, history, p); err != nil {
			return nil, fmt.Errorf("%s on %s: %w", req.Strategy.Name(), on, err)
		}
		if err := report.applied(on); err != nil {
			return nil, err
		}
		report.rebalances++
		log.Debug().Str("date", on.String()).Msg("strategy applied")
	}
	log.Info().Int("days", report.values.Len()).Int("rebalances", report.rebalances).Msg("backtest done")
	return report, nil
}

// snap returns the first trading day in [start, start+Lookback).
func snap(quotes stockscanner.Quotes, start date.Date) (date.Date, error) {
	after := quotes.Since(start)
	if len(after) == 0 || !after[0].Date.Before(start.Add(stockscanner.Lookback)) {
		return date.Date{}, fmt.Errorf("no trading day within %d days of %s: %w", stockscanner.Lookback, start, stockscanner.ErrNoData)
	}
	return after[0].Date, nil
}
