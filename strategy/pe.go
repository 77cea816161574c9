package strategy

import (
	"fmt"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// PEBased reallocates between equity and a savings account each time the
// benchmark P/E moves by a threshold from its pivot.
type PEBased struct {
	threshold float64 // relative change, 0.1 for 10%
	curve     Curve
	pivot     float64
}

// NewPEBased returns the strategy for a threshold in percent.
func NewPEBased(percent float64, curve Curve) (*PEBased, error) {
	if percent <= 0 {
		return nil, fmt.Errorf("change threshold %v must be positive", percent)
	}
	return &PEBased{threshold: percent / 100, curve: curve}, nil
}

func (s *PEBased) Name() string       { return "PEBasedAllocation" }
func (s *PEBased) Pivot() float64     { return s.pivot }
func (s *PEBased) Threshold() float64 { return s.threshold }

// weights gives the curve weight to equity and the rest to debt.
func (s *PEBased) weights(on date.Date, history stockscanner.Quotes) (stockscanner.Weights, float64, error) {
	pes, current, err := s.curve.Window(on, history)
	if err != nil {
		return nil, 0, err
	}
	eq, err := s.curve.Weight(pes, current)
	if err != nil {
		return nil, 0, err
	}
	return stockscanner.Weights{stockscanner.Equity: eq, stockscanner.Debt: 1 - eq, stockscanner.Gold: 0, stockscanner.Cash: 0}, current, nil
}

// Triggered is true when the P/E moved from the pivot by the threshold.
func (s *PEBased) Triggered(on date.Date, history stockscanner.Quotes) (bool, error) {
	pe, ok := history.Until(on).LastPE()
	if !ok {
		return false, fmt.Errorf("no P/E until %s: %w", on, stockscanner.ErrNoData)
	}
	d, err := deviation(pe, s.pivot)
	if err != nil {
		return false, fmt.Errorf("%s: %w", s.Name(), err)
	}
	return d >= s.threshold, nil
}

// Apply rebalances between equity and debt and moves the pivot to the P/E.
func (s *PEBased) Apply(on date.Date, history stockscanner.Quotes, p *stockscanner.Portfolio) error {
	w, pe, err := s.weights(on, history)
	if err != nil {
		return err
	}
	if err := p.RebalanceByWeights(on, w); err != nil {
		return err
	}
	s.pivot = pe
	p.Log(fmt.Sprintf("%s: pe %.2f, equity %s", s.Name(), pe, stockscanner.Ratio(w[stockscanner.Equity])))
	return nil
}

// Prepare invests in the benchmark and a savings account.
func (s *PEBased) Prepare(setup Setup, on date.Date, history stockscanner.Quotes) (stockscanner.Blueprint, error) {
	w, pe, err := s.weights(on, history)
	if err != nil {
		return stockscanner.Blueprint{}, err
	}
	s.pivot = pe
	bp := setup.blueprint(s.Name(), on, w)
	bp.Debts = []string{stockscanner.SavingsAccount}
	return bp, nil
}

// Reset sets the pivot, for a live portfolio starting to follow the strategy.
func (s *PEBased) Reset(pivot float64) { s.pivot = pivot }
