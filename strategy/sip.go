package strategy

import (
	"fmt"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// SIP is a systematic investment plan: a fixed amount of equity is bought
// on a calendar cadence anchored on a start day.
type SIP struct {
	start     date.Date
	amount    float64
	frequency date.Period
}

// NewSIP returns a plan investing amount every period from start. Only daily,
// weekly and monthly plans exist.
func NewSIP(start date.Date, amount float64, frequency date.Period) (*SIP, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("SIP amount %v must be positive", amount)
	}
	switch frequency {
	case date.Daily, date.Weekly, date.Monthly:
	default:
		return nil, fmt.Errorf("unsupported SIP frequency %v", frequency)
	}
	return &SIP{start: start, amount: amount, frequency: frequency}, nil
}

func (s *SIP) Name() string           { return "SIP" }
func (s *SIP) Start() date.Date       { return s.start }
func (s *SIP) Amount() float64        { return s.amount }
func (s *SIP) Frequency() date.Period { return s.frequency }

// Triggered is true on the days of the plan.
func (s *SIP) Triggered(on date.Date, _ stockscanner.Quotes) (bool, error) {
	return s.frequency.Due(s.start, on), nil
}

// Apply buys the plan amount of equity.
func (s *SIP) Apply(on date.Date, _ stockscanner.Quotes, p *stockscanner.Portfolio) error {
	amount := stockscanner.M(s.amount, p.Currency)
	if err := p.AddEquitiesByAmount(amount, on); err != nil {
		return fmt.Errorf("SIP of %s on %s: %w", amount, on, err)
	}
	p.Log(fmt.Sprintf("SIP of %s invested on %s. Total invested: %s", amount, on, p.TotalInvested()))
	return nil
}

// Prepare starts from an empty equity portfolio, contributions come from the plan only.
func (s *SIP) Prepare(setup Setup, on date.Date, _ stockscanner.Quotes) (stockscanner.Blueprint, error) {
	setup.Capital = 0
	return setup.blueprint(s.Name(), on, stockscanner.Weights{stockscanner.Equity: 1}), nil
}
