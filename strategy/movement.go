package strategy

import (
	"fmt"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// MarketMovement reallocates between equity and cash each time the benchmark
// close moves by a threshold from its pivot. The equity weight comes from the
// P/E allocation curve.
type MarketMovement struct {
	threshold float64 // relative change, 0.05 for 5%
	curve     Curve
	pivot     float64
}

// NewMarketMovement returns the strategy for a threshold in percent.
func NewMarketMovement(percent float64, curve Curve) (*MarketMovement, error) {
	if percent <= 0 {
		return nil, fmt.Errorf("change threshold %v must be positive", percent)
	}
	return &MarketMovement{threshold: percent / 100, curve: curve}, nil
}

func (s *MarketMovement) Name() string       { return "MarketMovementBasedAllocation" }
func (s *MarketMovement) Pivot() float64     { return s.pivot }
func (s *MarketMovement) Threshold() float64 { return s.threshold }

// Triggered is true when the close moved from the pivot by the threshold.
func (s *MarketMovement) Triggered(on date.Date, history stockscanner.Quotes) (bool, error) {
	q, err := last(on, history)
	if err != nil {
		return false, err
	}
	d, err := deviation(q.Close, s.pivot)
	if err != nil {
		return false, fmt.Errorf("%s: %w", s.Name(), err)
	}
	return d >= s.threshold, nil
}

// Apply rebalances between equity and cash and moves the pivot to the close.
func (s *MarketMovement) Apply(on date.Date, history stockscanner.Quotes, p *stockscanner.Portfolio) error {
	q, err := last(on, history)
	if err != nil {
		return err
	}
	eq, err := s.curve.EquityWeight(on, history)
	if err != nil {
		return err
	}
	if err := p.RebalanceByWeights(on, stockscanner.Weights{stockscanner.Equity: eq, stockscanner.Cash: 1 - eq}); err != nil {
		return err
	}
	s.pivot = q.Close
	p.Log(fmt.Sprintf("%s: close %.2f, pe %.2f, equity %s", s.Name(), q.Close, q.PE, stockscanner.Ratio(eq)))
	return nil
}

func (s *MarketMovement) Prepare(setup Setup, on date.Date, history stockscanner.Quotes) (stockscanner.Blueprint, error) {
	q, err := last(on, history)
	if err != nil {
		return stockscanner.Blueprint{}, err
	}
	eq, err := s.curve.EquityWeight(on, history)
	if err != nil {
		return stockscanner.Blueprint{}, err
	}
	s.pivot = q.Close
	return setup.blueprint(s.Name(), on, stockscanner.Weights{stockscanner.Equity: eq, stockscanner.Cash: 1 - eq}), nil
}

// Reset sets the pivot, for a live portfolio starting to follow the strategy.
func (s *MarketMovement) Reset(pivot float64) { s.pivot = pivot }
