package stockscanner

import (
	"fmt"

	"github.com/adityazagade/stockscanner/date"
)

// AddLot is a purchase into an asset.
type AddLot struct {
	Symbol   string
	Quantity Quantity
	Date     date.Date
	Price    Money
}

// RemoveLot is a sale out of an asset.
type RemoveLot struct {
	Symbol   string
	Quantity Quantity
	Date     date.Date
	Price    Money
}

// Action is the side of a trade.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Trade is an entry of an asset trade book.
type Trade struct {
	Action   Action    `json:"action"`
	Date     date.Date `json:"date"`
	Symbol   string    `json:"symbol"`
	Price    Money     `json:"price"`
	Quantity Quantity  `json:"quantity"`
}

// Amount returns the traded amount.
func (t Trade) Amount() Money { return t.Price.Mul(t.Quantity) }

func (t Trade) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", t.Date, t.Action, t.Quantity, t.Symbol, t.Price)
}

// Instrument is something an asset invests in.
type Instrument struct {
	Symbol string      `json:"symbol"`
	Kind   HoldingKind `json:"kind,omitempty"`
	Rate   float64     `json:"rate,omitempty"` // annual interest in percent, savings only
}

// Asset is the typed set of holdings of a portfolio. A Cash asset holds no
// instrument, only an amount.
type Asset struct {
	typ         AssetType
	currency    string
	instruments []Instrument
	holdings    map[string]*Holding
	cash        Money
	trades      []Trade
	market      PriceSource
}

// NewAsset returns an empty asset valued against the given price source.
func NewAsset(typ AssetType, currency string, src PriceSource) *Asset {
	return &Asset{
		typ:      typ,
		currency: currency,
		holdings: make(map[string]*Holding),
		cash:     M(0, currency),
		market:   src,
	}
}

func (a *Asset) Type() AssetType { return a.typ }

// Instruments returns the instruments the asset invests in, held or not.
func (a *Asset) Instruments() []Instrument { return append([]Instrument(nil), a.instruments...) }

// Holding returns the holding of a symbol, if any.
func (a *Asset) Holding(symbol string) (*Holding, bool) {
	h, ok := a.holdings[symbol]
	return h, ok
}

// Track registers an instrument without buying it. Amount based purchases
// are split across the tracked instruments.
func (a *Asset) Track(inst Instrument) {
	for _, x := range a.instruments {
		if x.Symbol == inst.Symbol {
			return
		}
	}
	a.instruments = append(a.instruments, inst)
}

func (a *Asset) instrument(symbol string) Instrument {
	for _, x := range a.instruments {
		if x.Symbol == symbol {
			return x
		}
	}
	return Instrument{Symbol: symbol, Kind: Market}
}

// Add buys a lot. Non positive quantities or prices are ignored.
// On a Cash asset, the amount quantity×price is deposited.
func (a *Asset) Add(lot AddLot) {
	if !lot.Quantity.IsPositive() || !lot.Price.IsPositive() {
		return
	}
	if a.typ == Cash {
		a.cash = a.cash.Add(lot.Price.Mul(lot.Quantity))
		return
	}
	h, ok := a.holdings[lot.Symbol]
	if !ok {
		inst := a.instrument(lot.Symbol)
		a.Track(inst)
		h = NewHolding(inst.Symbol)
		if inst.Kind == Savings {
			h = NewSavingsHolding(inst.Symbol, inst.Rate)
		}
		a.holdings[lot.Symbol] = h
	}
	h.Add(lot.Date, lot.Quantity, lot.Price)
	a.trades = append(a.trades, Trade{Action: Buy, Date: lot.Date, Symbol: lot.Symbol, Price: lot.Price, Quantity: lot.Quantity})
}

// Remove sells a lot FIFO out of the symbol's holding. A holding sold out is
// dropped. Non positive quantities are rejected. On a Cash asset, the amount quantity×price is withdrawn.
func (a *Asset) Remove(lot RemoveLot) error {
	if !lot.Quantity.IsPositive() || lot.Price.IsNegative() {
		return fmt.Errorf("cannot remove %s %s at %s from %s: invalid lot", lot.Quantity, lot.Symbol, lot.Price, a.typ)
	}
	if a.typ == Cash {
		return a.withdrawCash(lot.Price.Mul(lot.Quantity))
	}
	h, ok := a.holdings[lot.Symbol]
	if !ok {
		return fmt.Errorf("cannot remove %s %s from %s: not held: %w", lot.Quantity, lot.Symbol, a.typ, ErrInsufficientQuantity)
	}
	if err := h.Remove(lot.Quantity); err != nil {
		return err
	}
	a.sold(h, lot.Date, lot.Price, lot.Quantity)
	return nil
}

func (a *Asset) sold(h *Holding, on date.Date, price Money, quantity Quantity) {
	a.trades = append(a.trades, Trade{Action: Sell, Date: on, Symbol: h.Symbol(), Price: price, Quantity: quantity})
	if !h.Quantity().IsPositive() {
		delete(a.holdings, h.Symbol())
	}
}

func (a *Asset) withdrawCash(amount Money) error {
	if amount.GreaterThan(a.cash) {
		return fmt.Errorf("cannot withdraw %s, only %s available: %w", amount, a.cash, ErrInsufficientFunds)
	}
	a.cash = a.cash.Sub(amount)
	return nil
}

// price returns the close of a symbol on a day, 1 for savings instruments.
func (a *Asset) price(inst Instrument, on date.Date) (Money, error) {
	if inst.Kind == Savings {
		return M(1, a.currency), nil
	}
	if a.market == nil {
		return Money{}, fmt.Errorf("no price source to price %q: %w", inst.Symbol, ErrNoData)
	}
	bar, err := a.market.BarAsOf(inst.Symbol, on)
	if err != nil {
		return Money{}, err
	}
	return M(bar.Close, a.currency), nil
}

// share splits an amount equally across the asset instruments.
func (a *Asset) share(amount Money) (Money, error) {
	if len(a.instruments) == 0 {
		return Money{}, fmt.Errorf("%s asset has no instrument to trade %s: %w", a.typ, amount, ErrAssetNotFound)
	}
	return amount.Div(Q(len(a.instruments))), nil
}

// AddAmount invests an amount split equally across the asset instruments at
// the day's close.
func (a *Asset) AddAmount(amount Money, on date.Date) error {
	if a.typ == Cash {
		a.cash = a.cash.Add(amount)
		return nil
	}
	share, err := a.share(amount)
	if err != nil {
		return err
	}
	// resolve every price first, so that a missing one leaves the asset untouched.
	prices := make([]Money, len(a.instruments))
	for i, inst := range a.instruments {
		if prices[i], err = a.price(inst, on); err != nil {
			return fmt.Errorf("cannot buy %s of %s: %w", share, inst.Symbol, err)
		}
	}
	for i, inst := range a.instruments {
		a.Add(AddLot{Symbol: inst.Symbol, Quantity: share.DivPrice(prices[i]), Date: on, Price: prices[i]})
	}
	return nil
}

// dust is the quantity under which a sale is rounded to the whole holding.
var dust = Q(1e-9)

// ReduceAmount sells an amount split equally across the asset instruments at
// the day's close. Savings holdings are reduced by accrued value.
func (a *Asset) ReduceAmount(amount Money, on date.Date) error {
	if a.typ == Cash {
		return a.withdrawCash(amount)
	}
	value, err := a.Value(on)
	if err != nil {
		return err
	}
	diff := value.Sub(amount)
	if diff.Abs().LessThanOrEqual(value.Mul(dust)) {
		return a.sellOut(on)
	}
	if diff.IsNegative() {
		return fmt.Errorf("cannot sell %s of %s, only %s held: %w", amount, a.typ, value, ErrInsufficientQuantity)
	}
	share, err := a.share(amount)
	if err != nil {
		return err
	}
	type sale struct {
		h        *Holding
		quantity Quantity
		price    Money
	}
	sales := make([]sale, 0, len(a.instruments))
	for _, inst := range a.instruments {
		h, ok := a.holdings[inst.Symbol]
		if !ok {
			return fmt.Errorf("cannot sell %s of %s: not held: %w", share, inst.Symbol, ErrInsufficientQuantity)
		}
		if inst.Kind == Savings {
			if available := h.accrued(on); share.GreaterThan(available) {
				return fmt.Errorf("cannot sell %s of %s, only %s available: %w", share, inst.Symbol, available, ErrInsufficientQuantity)
			}
			sales = append(sales, sale{h: h, quantity: share.DivPrice(M(1, a.currency)), price: M(1, a.currency)})
			continue
		}
		price, err := a.price(inst, on)
		if err != nil {
			return fmt.Errorf("cannot sell %s of %s: %w", share, inst.Symbol, err)
		}
		q, held := share.DivPrice(price), h.Quantity()
		if q.GreaterThan(held) && q.Sub(held).LessThan(dust) {
			q = held
		}
		if q.GreaterThan(held) {
			return fmt.Errorf("cannot sell %s %s, only %s held: %w", q, inst.Symbol, held, ErrInsufficientQuantity)
		}
		sales = append(sales, sale{h: h, quantity: q, price: price})
	}
	for _, s := range sales {
		if s.h.Kind() == Savings {
			if err := s.h.withdraw(s.price.Mul(s.quantity), on); err != nil {
				return err
			}
		} else if err := s.h.Remove(s.quantity); err != nil {
			return err
		}
		a.sold(s.h, on, s.price, s.quantity)
	}
	return nil
}

// sellOut sells every holding entirely.
func (a *Asset) sellOut(on date.Date) error {
	for _, inst := range a.instruments {
		h, ok := a.holdings[inst.Symbol]
		if !ok {
			continue
		}
		if inst.Kind == Savings {
			amount := h.accrued(on)
			if err := h.withdraw(amount, on); err != nil {
				return err
			}
			a.sold(h, on, M(1, a.currency), amount.DivPrice(M(1, a.currency)))
			continue
		}
		price, err := a.price(inst, on)
		if err != nil {
			return err
		}
		q := h.Quantity()
		if err := h.Remove(q); err != nil {
			return err
		}
		a.sold(h, on, price, q)
	}
	return nil
}

// Value returns the asset value on a given day.
func (a *Asset) Value(on date.Date) (Money, error) {
	if a.typ == Cash {
		return a.cash, nil
	}
	total := M(0, a.currency)
	for _, inst := range a.instruments {
		h, ok := a.holdings[inst.Symbol]
		if !ok {
			continue
		}
		v, err := h.Value(a.market, on)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(v)
	}
	return total, nil
}

// CurrentValue returns the asset value today.
func (a *Asset) CurrentValue() (Money, error) { return a.Value(date.Today()) }

// Invested returns the cost of the lots still held, the amount for Cash.
func (a *Asset) Invested() Money {
	if a.typ == Cash {
		return a.cash
	}
	total := M(0, a.currency)
	for _, h := range a.holdings {
		total = total.Add(h.Invested())
	}
	return total
}

// Trades returns the asset trade book. Cash has none.
func (a *Asset) Trades() []Trade { return append([]Trade(nil), a.trades...) }
