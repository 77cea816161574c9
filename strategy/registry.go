package strategy

import (
	"fmt"
	"sort"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/config"
	"github.com/adityazagade/stockscanner/date"
)

// Registry resolves strategies by name.
type Registry struct {
	byName map[string]Strategy
}

// NewRegistry returns a registry of strategies.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{byName: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register adds a strategy, replacing any strategy of the same name.
func (r *Registry) Register(s Strategy) { r.byName[s.Name()] = s }

// Get returns the strategy registered under a name.
func (r *Registry) Get(name string) (Strategy, error) {
	s, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, stockscanner.ErrStrategyNotFound)
	}
	return s, nil
}

// All returns the strategies sorted by name.
func (r *Registry) All() []Strategy {
	list := make([]Strategy, 0, len(r.byName))
	for _, s := range r.byName {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FromConfig builds the registry of the strategies enabled in the
// configuration.
func FromConfig(cfg *config.Config) (*Registry, error) {
	curve := Curve{High: cfg.Allocation.High, Low: cfg.Allocation.Low, Years: cfg.Allocation.Years}
	r := NewRegistry()
	s := cfg.Strategies
	if s.BuyAndHold != nil {
		r.Register(BuyAndHold{})
	}
	if s.MarketMovementBasedAllocation != nil {
		mm, err := NewMarketMovement(s.MarketMovementBasedAllocation.ChangeThreshold, curve)
		if err != nil {
			return nil, fmt.Errorf("MarketMovementBasedAllocation: %w", err)
		}
		r.Register(mm)
	}
	if s.PEBasedAllocation != nil {
		pe, err := NewPEBased(s.PEBasedAllocation.ChangeThreshold, curve)
		if err != nil {
			return nil, fmt.Errorf("PEBasedAllocation: %w", err)
		}
		r.Register(pe)
	}
	if s.SIP != nil {
		freq, err := date.ParsePeriod(s.SIP.Frequency)
		if err != nil {
			return nil, fmt.Errorf("SIP: %w", err)
		}
		start := s.SIP.StartDate
		if start.IsZero() {
			start = date.Today()
		}
		sip, err := NewSIP(start, s.SIP.Amount, freq)
		if err != nil {
			return nil, fmt.Errorf("SIP: %w", err)
		}
		r.Register(sip)
	}
	return r, nil
}
