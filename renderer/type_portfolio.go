package renderer

import (
	"fmt"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// Portfolio is the rendered view of a portfolio on a given day.
// Numbers keep their exact types, so that they come with their own
// renderers (SignedString etc.).
type Portfolio struct {
	Name        string
	Description string
	Strategy    string
	Date        date.Date
	Value       stockscanner.Money
	Invested    stockscanner.Money
	Gain        stockscanner.Money
	Assets      []PortfolioAsset
	Trades      []PortfolioTrade
	ChangeLog   []string
}

// PortfolioAsset is a line of the asset allocation.
type PortfolioAsset struct {
	Type     stockscanner.AssetType
	Weight   stockscanner.Percent
	Value    stockscanner.Money
	Invested stockscanner.Money
	Holdings []PortfolioHolding
}

// PortfolioHolding is an instrument held by an asset.
type PortfolioHolding struct {
	Symbol       string
	Quantity     stockscanner.Quantity
	AveragePrice stockscanner.Money
	Value        stockscanner.Money
}

// PortfolioTrade is a line of the trade book.
type PortfolioTrade struct {
	Date     date.Date
	Action   stockscanner.Action
	Symbol   string
	Quantity stockscanner.Quantity
	Price    stockscanner.Money
	Amount   stockscanner.Money
}

// quantityPlaces is the precision of rendered quantities.
const quantityPlaces = 4

// NewPortfolio values a portfolio on a day for rendering. Trades after that
// day are left out.
func NewPortfolio(p *stockscanner.Portfolio, on date.Date) (*Portfolio, error) {
	value, err := p.Value(on)
	if err != nil {
		return nil, fmt.Errorf("valuing %q on %s: %w", p.Name, on, err)
	}
	invested := p.TotalInvested()
	v := &Portfolio{
		Name:        p.Name,
		Description: p.Description,
		Strategy:    p.StrategyName(),
		Date:        on,
		Value:       value,
		Invested:    invested,
		Gain:        value.Sub(invested),
		ChangeLog:   p.ChangeLog(),
	}
	for _, a := range p.Assets() {
		av, err := a.Value(on)
		if err != nil {
			return nil, fmt.Errorf("valuing %s of %q on %s: %w", a.Type(), p.Name, on, err)
		}
		row := PortfolioAsset{
			Type:     a.Type(),
			Weight:   stockscanner.Ratio(av.Ratio(value)),
			Value:    av,
			Invested: a.Invested(),
		}
		for _, inst := range a.Instruments() {
			h, ok := a.Holding(inst.Symbol)
			if !ok || h.Quantity().IsZero() {
				continue
			}
			hv, err := h.Value(p.Market(), on)
			if err != nil {
				return nil, fmt.Errorf("valuing %s of %q on %s: %w", inst.Symbol, p.Name, on, err)
			}
			avg, err := h.AverageBuyPrice()
			if err != nil {
				return nil, err
			}
			row.Holdings = append(row.Holdings, PortfolioHolding{
				Symbol:       inst.Symbol,
				Quantity:     h.Quantity().Round(quantityPlaces),
				AveragePrice: avg,
				Value:        hv,
			})
		}
		v.Assets = append(v.Assets, row)
	}
	for _, t := range p.AllTrades() {
		if t.Date.After(on) {
			continue
		}
		v.Trades = append(v.Trades, PortfolioTrade{
			Date:     t.Date,
			Action:   t.Action,
			Symbol:   t.Symbol,
			Quantity: t.Quantity.Round(quantityPlaces),
			Price:    t.Price,
			Amount:   t.Amount(),
		})
	}
	return v, nil
}

// PortfolioMarkdown renders a portfolio valued on a day.
func PortfolioMarkdown(p *stockscanner.Portfolio, on date.Date) (string, error) {
	v, err := NewPortfolio(p, on)
	if err != nil {
		return "", err
	}
	return RenderPortfolio(v), nil
}
