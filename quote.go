package stockscanner

import (
	"fmt"
	"math"
	"sort"

	"github.com/adityazagade/stockscanner/date"
)

// Lookback is the number of days a price lookup may go back to find the
// latest close, so that weekends and holidays still resolve to a price.
const Lookback = 5

// Bar is an end-of-day price row of an instrument.
type Bar struct {
	Date     date.Date `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume,omitempty"`
	Turnover float64   `json:"turnover,omitempty"`
}

// Fundamental is a valuation row of an index or instrument.
type Fundamental struct {
	Date     date.Date `json:"date"`
	PE       float64   `json:"pe"`
	PB       float64   `json:"pb"`
	DivYield float64   `json:"div_yield"`
}

// PriceSource is the market data the ledger and the strategies rely on.
// Series are returned in ascending date order.
type PriceSource interface {
	Bars(symbol string) ([]Bar, error)
	Fundamentals(symbol string) ([]Fundamental, error)
	// BarAsOf returns the latest bar dated within [on-Lookback, on].
	// It fails with ErrNoData when there is none.
	BarAsOf(symbol string, on date.Date) (Bar, error)
	Has(symbol string) bool
}

// BarAsOf finds in an ascending series the latest bar within the lookback
// window ending on the given day.
func BarAsOf(bars []Bar, symbol string, on date.Date) (Bar, error) {
	i := sort.Search(len(bars), func(i int) bool { return bars[i].Date.After(on) })
	if i == 0 || bars[i-1].Date.Before(on.Add(-Lookback)) {
		return Bar{}, fmt.Errorf("no price for %q between %s and %s: %w", symbol, on.Add(-Lookback), on, ErrNoData)
	}
	return bars[i-1], nil
}

// Quote is a trading day of an index: its price bar and, when known, the
// fundamentals published that day.
type Quote struct {
	Bar
	PE              float64 `json:"pe,omitempty"`
	PB              float64 `json:"pb,omitempty"`
	DivYield        float64 `json:"div_yield,omitempty"`
	HasFundamentals bool    `json:"-"`
}

// Quotes is an ascending series of quotes.
type Quotes []Quote

// Merge left joins fundamentals onto bars by date.
func Merge(bars []Bar, fundamentals []Fundamental) Quotes {
	byDate := make(map[date.Date]Fundamental, len(fundamentals))
	for _, f := range fundamentals {
		byDate[f.Date] = f
	}
	quotes := make(Quotes, 0, len(bars))
	for _, b := range bars {
		q := Quote{Bar: b}
		if f, ok := byDate[b.Date]; ok {
			q.PE, q.PB, q.DivYield, q.HasFundamentals = f.PE, f.PB, f.DivYield, true
		}
		quotes = append(quotes, q)
	}
	return quotes
}

// LoadQuotes reads the bars and the fundamentals of a symbol and merges them.
func LoadQuotes(src PriceSource, symbol string) (Quotes, error) {
	bars, err := src.Bars(symbol)
	if err != nil {
		return nil, fmt.Errorf("loading prices of %q: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no prices for %q: %w", symbol, ErrNoData)
	}
	fundamentals, err := src.Fundamentals(symbol)
	if err != nil {
		return nil, fmt.Errorf("loading fundamentals of %q: %w", symbol, err)
	}
	return Merge(bars, fundamentals), nil
}

// Until returns the quotes dated on or before the given day.
func (q Quotes) Until(on date.Date) Quotes {
	i := sort.Search(len(q), func(i int) bool { return q[i].Date.After(on) })
	return q[:i]
}

// Since returns the quotes dated on or after the given day.
func (q Quotes) Since(on date.Date) Quotes {
	i := sort.Search(len(q), func(i int) bool { return !q[i].Date.Before(on) })
	return q[i:]
}

// Between returns the quotes within the range, boundaries included.
func (q Quotes) Between(r date.Range) Quotes { return q.Since(r.From).Until(r.To) }

// Last returns the most recent quote.
func (q Quotes) Last() (Quote, bool) {
	if len(q) == 0 {
		return Quote{}, false
	}
	return q[len(q)-1], true
}

// PEs returns the P/E values of the quotes that carry fundamentals.
func (q Quotes) PEs() []float64 {
	pes := make([]float64, 0, len(q))
	for _, x := range q {
		if x.HasFundamentals && !math.IsNaN(x.PE) {
			pes = append(pes, x.PE)
		}
	}
	return pes
}

// LastPE returns the most recent P/E value of the series.
func (q Quotes) LastPE() (float64, bool) {
	for i := len(q) - 1; i >= 0; i-- {
		if q[i].HasFundamentals && !math.IsNaN(q[i].PE) {
			return q[i].PE, true
		}
	}
	return 0, false
}
