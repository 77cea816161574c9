package strategy

import (
	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// BuyAndHold invests everything in equity and never reallocates.
type BuyAndHold struct{}

func (BuyAndHold) Name() string { return "BuyAndHold" }

func (BuyAndHold) Triggered(date.Date, stockscanner.Quotes) (bool, error) { return false, nil }

// Apply moves everything back to equity.
func (BuyAndHold) Apply(on date.Date, _ stockscanner.Quotes, p *stockscanner.Portfolio) error {
	return p.RebalanceByWeights(on, stockscanner.Weights{stockscanner.Equity: 1})
}

func (b BuyAndHold) Prepare(setup Setup, on date.Date, _ stockscanner.Quotes) (stockscanner.Blueprint, error) {
	return setup.blueprint(b.Name(), on, stockscanner.Weights{stockscanner.Equity: 1}), nil
}
