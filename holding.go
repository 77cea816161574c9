package stockscanner

import (
	"fmt"
	"math"

	"github.com/adityazagade/stockscanner/date"
)

// HoldingKind tells how a holding is valued.
type HoldingKind int

const (
	// Market holdings are valued at the instrument's close.
	Market HoldingKind = iota
	// Savings holdings have no market price, they accrue daily compound interest.
	Savings
)

func (k HoldingKind) String() string {
	if k == Savings {
		return "savings"
	}
	return "market"
}

func (k HoldingKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *HoldingKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "market", "":
		*k = Market
	case "savings":
		*k = Savings
	default:
		return fmt.Errorf("unknown holding kind %q", b)
	}
	return nil
}

// Holding is the ledger of the lots of a single instrument, in acquisition order.
type Holding struct {
	symbol string
	kind   HoldingKind
	rate   float64 // annual interest rate in percent, savings only
	lots   lots
}

// NewHolding returns an empty market holding.
func NewHolding(symbol string) *Holding {
	return &Holding{symbol: symbol, kind: Market}
}

// NewSavingsHolding returns an empty interest bearing holding.
func NewSavingsHolding(symbol string, rate float64) *Holding {
	return &Holding{symbol: symbol, kind: Savings, rate: rate}
}

func (h *Holding) Symbol() string    { return h.symbol }
func (h *Holding) Kind() HoldingKind { return h.kind }
func (h *Holding) Rate() float64     { return h.rate }

// Lots returns a copy of the lots, oldest first.
func (h *Holding) Lots() []Lot { return append([]Lot(nil), h.lots...) }

// Add appends a new lot. Lots are never merged.
func (h *Holding) Add(on date.Date, quantity Quantity, price Money) {
	h.lots = append(h.lots, Lot{Date: on, Quantity: quantity, Price: price})
}

// Remove consumes quantity from the oldest lots first. It fails without
// modifying the holding when the quantity exceeds what is held.
func (h *Holding) Remove(quantity Quantity) error {
	if quantity.IsNegative() {
		return fmt.Errorf("cannot remove a negative quantity %s of %s", quantity, h.symbol)
	}
	if held := h.Quantity(); quantity.GreaterThan(held) {
		return fmt.Errorf("cannot remove %s %s, only %s held: %w", quantity, h.symbol, held, ErrInsufficientQuantity)
	}
	h.lots = h.lots.sell(quantity)
	return nil
}

// Quantity returns the total quantity held.
func (h *Holding) Quantity() Quantity { return h.lots.quantity() }

// AverageBuyPrice returns the quantity weighted average lot price.
func (h *Holding) AverageBuyPrice() (Money, error) {
	q := h.Quantity()
	if q.IsZero() {
		return Money{}, fmt.Errorf("average buy price of %q: %w", h.symbol, ErrEmptyLedger)
	}
	return h.lots.cost().Div(q), nil
}

// Invested returns the cost of the lots still held.
func (h *Holding) Invested() Money { return h.lots.cost() }

// Value returns the holding value on a given day.
func (h *Holding) Value(src PriceSource, on date.Date) (Money, error) {
	if h.kind == Savings {
		return h.accrued(on), nil
	}
	if len(h.lots) == 0 {
		return Money{}, nil
	}
	bar, err := src.BarAsOf(h.symbol, on)
	if err != nil {
		return Money{}, fmt.Errorf("value of %q on %s: %w", h.symbol, on, err)
	}
	return M(bar.Close, h.currency()).Mul(h.Quantity()), nil
}

// CurrentValue returns the holding value today.
func (h *Holding) CurrentValue(src PriceSource) (Money, error) { return h.Value(src, date.Today()) }

func (h *Holding) currency() string {
	if len(h.lots) == 0 {
		return ""
	}
	return h.lots[0].Price.Currency()
}

// growth is the compound interest factor of a savings lot over a number of days.
func (h *Holding) growth(days int) Quantity {
	if days <= 0 {
		return Q(1)
	}
	daily := h.rate / 100 / 365
	return Q(math.Pow(1+daily, float64(days)))
}

// lotValue is the value of a savings lot on a given day, principal plus interest.
func (h *Holding) lotValue(l Lot, on date.Date) Money {
	return l.Cost().Mul(h.growth(l.Date.DaysUntil(on)))
}

// accrued sums the value of the savings lots opened on or before the day.
func (h *Holding) accrued(on date.Date) Money {
	var total Money
	for _, l := range h.lots {
		if l.Date.After(on) {
			continue
		}
		total = total.Add(h.lotValue(l, on))
	}
	return total
}

// withdraw removes an amount of accrued value from a savings holding, oldest
// lots first. A partially consumed lot keeps the fraction of its quantity
// matching the value left in it.
func (h *Holding) withdraw(amount Money, on date.Date) error {
	if available := h.accrued(on); amount.GreaterThan(available) {
		return fmt.Errorf("cannot withdraw %s from %q, only %s available: %w", amount, h.symbol, available, ErrInsufficientQuantity)
	}
	remaining := make(lots, 0, len(h.lots))
	for _, l := range h.lots {
		if !amount.IsPositive() || l.Date.After(on) {
			remaining = append(remaining, l)
			continue
		}
		v := h.lotValue(l, on)
		if !v.GreaterThan(amount) {
			amount = amount.Sub(v)
			continue
		}
		l.Quantity = l.Quantity.Mul(v.Sub(amount).DivPrice(v))
		remaining = append(remaining, l)
		amount = Money{}
	}
	h.lots = remaining
	return nil
}
