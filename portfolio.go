package stockscanner

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/adityazagade/stockscanner/date"
	"github.com/google/uuid"
)

// Strategy decides when and how a portfolio is reallocated.
type Strategy interface {
	Name() string
	// Triggered reports whether the strategy must be applied on a day, given
	// the quotes of its benchmark up to that day.
	Triggered(on date.Date, history Quotes) (bool, error)
	// Apply reallocates the portfolio.
	Apply(on date.Date, history Quotes, p *Portfolio) error
}

// Weights are target fractions of the portfolio value per asset type.
type Weights map[AssetType]float64

// Sum returns the sum of the weights.
func (w Weights) Sum() float64 {
	var s float64
	for _, x := range w {
		s += x
	}
	return s
}

func (w Weights) String() string {
	parts := make([]string, 0, len(AssetTypes))
	for _, t := range AssetTypes {
		if x, ok := w[t]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", t, Ratio(x)))
		}
	}
	return strings.Join(parts, " ")
}

// Portfolio is a set of assets, at most one per type, bound to a strategy.
type Portfolio struct {
	ID          string
	Name        string
	Description string
	Currency    string

	assets   map[AssetType]*Asset
	changes  []string
	strategy Strategy
	// strategyName survives persistence, strategy must be bound again after a load.
	strategyName string
	market       PriceSource
}

// NewPortfolio returns an empty portfolio valued against a price source.
func NewPortfolio(name, currency string, src PriceSource) *Portfolio {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Portfolio{
		ID:       uuid.NewString(),
		Name:     name,
		Currency: currency,
		assets:   make(map[AssetType]*Asset),
		market:   src,
	}
}

// Bind sets the price source used to value the portfolio.
func (p *Portfolio) Bind(src PriceSource) {
	p.market = src
	for _, a := range p.assets {
		a.market = src
	}
}

// Market returns the price source the portfolio is valued against.
func (p *Portfolio) Market() PriceSource { return p.market }

// Asset returns the asset of a type.
func (p *Portfolio) Asset(typ AssetType) (*Asset, error) {
	a, ok := p.assets[typ]
	if !ok {
		return nil, fmt.Errorf("portfolio %q has no %s: %w", p.Name, typ, ErrAssetNotFound)
	}
	return a, nil
}

// Assets returns the portfolio assets in AssetTypes order.
func (p *Portfolio) Assets() []*Asset {
	list := make([]*Asset, 0, len(p.assets))
	for _, t := range AssetTypes {
		if a, ok := p.assets[t]; ok {
			list = append(list, a)
		}
	}
	return list
}

// upsert returns the asset of a type, creating it if needed.
func (p *Portfolio) upsert(typ AssetType) *Asset {
	a, ok := p.assets[typ]
	if !ok {
		a = NewAsset(typ, p.Currency, p.market)
		p.assets[typ] = a
	}
	return a
}

// AddAsset buys a lot into the asset of a type, creating it if needed.
func (p *Portfolio) AddAsset(typ AssetType, lot AddLot) { p.upsert(typ).Add(lot) }

func (p *Portfolio) AddStock(lot AddLot) { p.AddAsset(Equity, lot) }
func (p *Portfolio) AddDebt(lot AddLot)  { p.AddAsset(Debt, lot) }
func (p *Portfolio) AddGold(lot AddLot)  { p.AddAsset(Gold, lot) }

// AddCash deposits an amount.
func (p *Portfolio) AddCash(amount Money) {
	a := p.upsert(Cash)
	a.cash = a.cash.Add(amount)
}

// Track registers an instrument in the asset of a type, creating it if needed.
func (p *Portfolio) Track(typ AssetType, inst Instrument) { p.upsert(typ).Track(inst) }

// Value returns the total value on a given day.
func (p *Portfolio) Value(on date.Date) (Money, error) {
	total := M(0, p.Currency)
	for _, a := range p.Assets() {
		v, err := a.Value(on)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(v)
	}
	return total, nil
}

// CurrentValue returns the total value today.
func (p *Portfolio) CurrentValue() (Money, error) { return p.Value(date.Today()) }

// TotalInvested returns the cost of everything held.
func (p *Portfolio) TotalInvested() Money {
	total := M(0, p.Currency)
	for _, a := range p.Assets() {
		total = total.Add(a.Invested())
	}
	return total
}

// Weight returns the fraction of the portfolio value held in an asset type
// on a given day. It is 0 when the type is absent or the portfolio is empty.
func (p *Portfolio) Weight(typ AssetType, on date.Date) (float64, error) {
	a, ok := p.assets[typ]
	if !ok {
		return 0, nil
	}
	total, err := p.Value(on)
	if err != nil {
		return 0, err
	}
	v, err := a.Value(on)
	if err != nil {
		return 0, err
	}
	return v.Ratio(total), nil
}

// CurrentWeight returns the weight of an asset type today.
func (p *Portfolio) CurrentWeight(typ AssetType) (float64, error) { return p.Weight(typ, date.Today()) }

// Weights returns the weight of every asset type held on a given day.
func (p *Portfolio) Weights(on date.Date) (Weights, error) {
	values, total, err := p.snapshot(on)
	if err != nil {
		return nil, err
	}
	w := make(Weights, len(values))
	for t, v := range values {
		w[t] = v.Ratio(total)
	}
	return w, nil
}

// snapshot values every asset on a day.
func (p *Portfolio) snapshot(on date.Date) (map[AssetType]Money, Money, error) {
	values := make(map[AssetType]Money, len(p.assets))
	total := M(0, p.Currency)
	for _, a := range p.Assets() {
		v, err := a.Value(on)
		if err != nil {
			return nil, Money{}, err
		}
		values[a.Type()] = v
		total = total.Add(v)
	}
	return values, total, nil
}

// rebalanceTolerance is the fraction of the portfolio value under which a
// weight difference is not traded.
var rebalanceTolerance = Q(1e-9)

// RebalanceByWeights trades every asset type toward its target weight, types
// missing from the targets are sold out. All trades are computed from one
// valuation snapshot taken before the first trade, sales are executed first.
func (p *Portfolio) RebalanceByWeights(on date.Date, targets Weights) error {
	values, total, err := p.snapshot(on)
	if err != nil {
		return fmt.Errorf("cannot rebalance %q on %s: %w", p.Name, on, err)
	}
	deltas := make(map[AssetType]Money, len(AssetTypes))
	for _, t := range AssetTypes {
		delta := total.Mul(Q(targets[t])).Sub(values[t])
		if delta.Abs().GreaterThan(total.Mul(rebalanceTolerance)) {
			deltas[t] = delta
		}
	}
	for t, delta := range deltas {
		if _, ok := p.assets[t]; !ok && t != Cash && delta.IsPositive() {
			return fmt.Errorf("cannot rebalance %q to %s %s: %w", p.Name, Ratio(targets[t]), t, ErrAssetNotFound)
		}
	}
	for _, t := range AssetTypes {
		delta, ok := deltas[t]
		if !ok || !delta.IsNegative() {
			continue
		}
		a, err := p.Asset(t)
		if err != nil {
			return err
		}
		if err := a.ReduceAmount(delta.Neg(), on); err != nil {
			return fmt.Errorf("cannot reduce %s by %s on %s: %w", t, delta.Neg(), on, err)
		}
	}
	for _, t := range AssetTypes {
		delta, ok := deltas[t]
		if !ok || !delta.IsPositive() {
			continue
		}
		a, err := p.Asset(t)
		if errors.Is(err, ErrAssetNotFound) && t == Cash {
			a, err = p.upsert(Cash), nil
		}
		if err != nil {
			return err
		}
		if err := a.AddAmount(delta, on); err != nil {
			return fmt.Errorf("cannot increase %s by %s on %s: %w", t, delta, on, err)
		}
	}
	return p.logRebalance(on)
}

func (p *Portfolio) logRebalance(on date.Date) error {
	value, err := p.Value(on)
	if err != nil {
		return err
	}
	w, err := p.Weights(on)
	if err != nil {
		return err
	}
	p.Log(fmt.Sprintf("Portfolio rebalanced on %s. Total invested: %s, value: %s, weights: %s",
		on, p.TotalInvested(), value, w))
	return nil
}

// AddEquitiesByAmount invests an amount into the equity asset.
func (p *Portfolio) AddEquitiesByAmount(amount Money, on date.Date) error {
	a, err := p.Asset(Equity)
	if err != nil {
		return err
	}
	return a.AddAmount(amount, on)
}

// Trades returns the trade book of the equity asset.
func (p *Portfolio) Trades() []Trade {
	a, ok := p.assets[Equity]
	if !ok {
		return nil
	}
	return a.Trades()
}

// AllTrades returns the trades of every asset in date order.
func (p *Portfolio) AllTrades() []Trade {
	var all []Trade
	for _, a := range p.Assets() {
		all = append(all, a.Trades()...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return all
}

// Apply binds a strategy to the portfolio.
func (p *Portfolio) Apply(s Strategy) {
	p.strategy = s
	p.strategyName = ""
	if s != nil {
		p.strategyName = s.Name()
	}
}

// Strategy returns the bound strategy, nil if none or not bound since a load.
func (p *Portfolio) Strategy() Strategy { return p.strategy }

// StrategyName returns the name of the strategy the portfolio follows.
func (p *Portfolio) StrategyName() string { return p.strategyName }

// Log appends a message to the change log.
func (p *Portfolio) Log(msg string) { p.changes = append(p.changes, msg) }

// ChangeLog returns the change log, oldest first.
func (p *Portfolio) ChangeLog() []string { return append([]string(nil), p.changes...) }

// PortfolioStore persists portfolios. Loaded portfolios are bound to the
// store's price source but not to their strategy.
type PortfolioStore interface {
	Save(p *Portfolio) error
	Load(id string) (*Portfolio, error)
	LoadAll() ([]*Portfolio, error)
}
