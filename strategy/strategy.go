// Package strategy implements the allocation strategies a portfolio can
// follow, and the registry resolving them by name.
//
// A strategy is a two state machine: it waits until its trigger condition is
// met on a day, then applies itself to the portfolio, which resets its pivot
// and makes it wait again.
package strategy

import (
	"fmt"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// Strategy is a strategy that can also build the portfolio it starts from.
type Strategy interface {
	stockscanner.Strategy
	// Prepare resets the strategy state for a run starting on a day and
	// returns the blueprint of the initial portfolio.
	Prepare(setup Setup, on date.Date, history stockscanner.Quotes) (stockscanner.Blueprint, error)
}

// Setup is what a run provides to Prepare.
type Setup struct {
	Benchmark    string  // index traded as the equity asset
	Capital      float64 // initial capital
	Currency     string
	InterestRate float64 // savings account annual rate, in percent
}

// blueprint returns the common part of the blueprints.
func (s Setup) blueprint(name string, on date.Date, weights stockscanner.Weights) stockscanner.Blueprint {
	return stockscanner.Blueprint{
		Name:         name,
		Currency:     s.Currency,
		Capital:      s.Capital,
		Weights:      weights,
		Equities:     []string{s.Benchmark},
		On:           on,
		InterestRate: s.InterestRate,
	}
}

// last returns the quote of the last day of the history.
func last(on date.Date, history stockscanner.Quotes) (stockscanner.Quote, error) {
	q, ok := history.Until(on).Last()
	if !ok {
		return q, fmt.Errorf("no quote until %s: %w", on, stockscanner.ErrNoData)
	}
	return q, nil
}

// deviation returns |x − pivot| / pivot.
func deviation(x, pivot float64) (float64, error) {
	if pivot == 0 {
		return 0, fmt.Errorf("pivot is set to 0")
	}
	d := (x - pivot) / pivot
	if d < 0 {
		d = -d
	}
	return d, nil
}
