package stockscanner

import (
	"fmt"
	"math"

	"github.com/adityazagade/stockscanner/date"
)

// SavingsAccount is the debt symbol of an interest bearing savings account.
// It needs no market data.
const SavingsAccount = "SAVINGS_ACC"

// Blueprint describes how to build an initial portfolio.
type Blueprint struct {
	Name        string
	Description string
	Currency    string
	Capital     float64
	Weights     Weights
	Equities    []string
	Debts       []string
	Golds       []string
	On          date.Date
	// Strict requires the weights to sum to 1. Otherwise the difference is
	// absorbed by cash.
	Strict bool
	// InterestRate is the annual rate in percent of the savings account.
	InterestRate float64
}

// weightEpsilon is the tolerance on the sum of the weights.
const weightEpsilon = 1e-9

// normalize checks the weights and returns the ones to build with.
func (bp Blueprint) normalize() (Weights, error) {
	w := make(Weights, len(bp.Weights)+1)
	for t, x := range bp.Weights {
		if x < 0 {
			return nil, fmt.Errorf("negative %s weight %v", t, x)
		}
		w[t] = x
	}
	sum := w.Sum()
	if math.Abs(sum-1) <= weightEpsilon {
		return w, nil
	}
	if bp.Strict {
		return nil, fmt.Errorf("sum of weights is %v, want 1", sum)
	}
	w[Cash] += 1 - sum
	if w[Cash] < -weightEpsilon {
		return nil, fmt.Errorf("sum of weights %v exceeds 1 by more than the cash weight", sum)
	}
	w[Cash] = math.Max(0, math.Round(w[Cash]*1e10)/1e10)
	return w, nil
}

// instruments lists the instruments of each asset type.
func (bp Blueprint) instruments() map[AssetType][]Instrument {
	m := make(map[AssetType][]Instrument, 3)
	for _, s := range bp.Equities {
		m[Equity] = append(m[Equity], Instrument{Symbol: s})
	}
	for _, s := range bp.Debts {
		inst := Instrument{Symbol: s}
		if s == SavingsAccount {
			inst = Instrument{Symbol: s, Kind: Savings, Rate: bp.InterestRate}
		}
		m[Debt] = append(m[Debt], inst)
	}
	for _, s := range bp.Golds {
		m[Gold] = append(m[Gold], Instrument{Symbol: s})
	}
	return m
}

// Build creates a portfolio investing the blueprint capital according to its
// weights on its creation day. Any failure is reported as ErrPortfolioCreation.
func Build(src PriceSource, bp Blueprint) (*Portfolio, error) {
	p, err := build(src, bp)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrPortfolioCreation, bp.Name, err)
	}
	return p, nil
}

func build(src PriceSource, bp Blueprint) (*Portfolio, error) {
	if bp.Capital < 0 {
		return nil, fmt.Errorf("negative capital %v", bp.Capital)
	}
	weights, err := bp.normalize()
	if err != nil {
		return nil, err
	}
	instruments := bp.instruments()
	for _, list := range instruments {
		for _, inst := range list {
			if inst.Kind != Savings && !src.Has(inst.Symbol) {
				return nil, fmt.Errorf("invalid ticker %q or ticker data not available", inst.Symbol)
			}
		}
	}

	name := bp.Name
	if name == "" {
		name = "Default Portfolio"
	}
	p := NewPortfolio(name, bp.Currency, src)
	p.Description = bp.Description
	capital := M(bp.Capital, p.Currency)
	for _, t := range AssetTypes {
		if t == Cash {
			continue
		}
		if weights[t] > 0 && len(instruments[t]) == 0 {
			return nil, fmt.Errorf("%s weight %s without any %s instrument", t, Ratio(weights[t]), t)
		}
		for _, inst := range instruments[t] {
			p.Track(t, inst)
		}
		amount := capital.Mul(Q(weights[t]))
		if !amount.IsPositive() {
			continue
		}
		a, err := p.Asset(t)
		if err != nil {
			return nil, err
		}
		if err := a.AddAmount(amount, bp.On); err != nil {
			return nil, err
		}
	}
	p.AddCash(capital.Mul(Q(weights[Cash])))
	return p, nil
}
