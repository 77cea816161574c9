package stockscanner

import (
	"encoding/json"
	"fmt"
)

// This file persists portfolios as human-readable JSON documents. Assets,
// holdings and lots are written in a stable order so that a saved portfolio
// diffs cleanly.

type jholding struct {
	Symbol string      `json:"symbol"`
	Kind   HoldingKind `json:"kind,omitempty"`
	Rate   float64     `json:"rate,omitempty"`
	Lots   []Lot       `json:"lots"`
}

type jasset struct {
	Type        AssetType    `json:"type"`
	Instruments []Instrument `json:"instruments,omitempty"`
	Cash        *Money       `json:"cash,omitempty"`
	Holdings    []jholding   `json:"holdings,omitempty"`
	Trades      []Trade      `json:"trades,omitempty"`
}

func (a *Asset) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("type", a.typ)
	w.Optional("instruments", a.instruments)
	if a.typ == Cash {
		w.Append("cash", a.cash)
	}
	var holdings []jholding
	for _, inst := range a.instruments {
		if h, ok := a.holdings[inst.Symbol]; ok {
			holdings = append(holdings, jholding{Symbol: h.symbol, Kind: h.kind, Rate: h.rate, Lots: h.lots})
		}
	}
	w.Optional("holdings", holdings)
	w.Optional("trades", a.trades)
	return w.MarshalJSON()
}

func (p *Portfolio) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.ID)
	w.Append("name", p.Name)
	w.Optional("description", p.Description)
	w.Append("currency", p.Currency)
	w.Optional("strategy", p.strategyName)
	w.Append("assets", p.Assets())
	w.Optional("changes", p.changes)
	return w.MarshalJSON()
}

func (p *Portfolio) UnmarshalJSON(b []byte) error {
	var jp struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Currency    string   `json:"currency"`
		Strategy    string   `json:"strategy"`
		Assets      []jasset `json:"assets"`
		Changes     []string `json:"changes"`
	}
	if err := json.Unmarshal(b, &jp); err != nil {
		return fmt.Errorf("invalid portfolio: %w", err)
	}
	*p = *NewPortfolio(jp.Name, jp.Currency, nil)
	p.ID, p.Description, p.strategyName, p.changes = jp.ID, jp.Description, jp.Strategy, jp.Changes
	for _, ja := range jp.Assets {
		if _, exists := p.assets[ja.Type]; exists {
			return fmt.Errorf("invalid portfolio %q: duplicate %s asset", jp.Name, ja.Type)
		}
		a := p.upsert(ja.Type)
		a.instruments, a.trades = ja.Instruments, ja.Trades
		if ja.Cash != nil {
			a.cash = *ja.Cash
		}
		for _, jh := range ja.Holdings {
			if len(jh.Lots) == 0 {
				continue
			}
			a.Track(Instrument{Symbol: jh.Symbol, Kind: jh.Kind, Rate: jh.Rate})
			a.holdings[jh.Symbol] = &Holding{symbol: jh.Symbol, kind: jh.Kind, rate: jh.Rate, lots: jh.Lots}
		}
	}
	return nil
}
