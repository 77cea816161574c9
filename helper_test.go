package stockscanner

import (
	"sort"
	"time"

	"github.com/adityazagade/stockscanner/date"
)

// INR is a helper for test to create rupees from const.
func INR(v float64) Money { return M(v, "INR") }

// day is a helper for test to create dates in 2020.
func day(m time.Month, d int) date.Date { return date.New(2020, m, d) }

// fakeMarket is an in memory PriceSource for tests.
type fakeMarket map[string][]Bar

// set records a constant close for a symbol over consecutive days.
func (f fakeMarket) set(symbol string, from date.Date, days int, close float64) fakeMarket {
	for i := 0; i < days; i++ {
		f[symbol] = append(f[symbol], Bar{Date: from.Add(i), Open: close, High: close, Low: close, Close: close})
	}
	sort.SliceStable(f[symbol], func(i, j int) bool { return f[symbol][i].Date.Before(f[symbol][j].Date) })
	return f
}

func (f fakeMarket) Bars(symbol string) ([]Bar, error)                 { return f[symbol], nil }
func (f fakeMarket) Fundamentals(symbol string) ([]Fundamental, error) { return nil, nil }

func (f fakeMarket) Has(symbol string) bool {
	_, ok := f[symbol]
	return ok
}

func (f fakeMarket) BarAsOf(symbol string, on date.Date) (Bar, error) {
	return BarAsOf(f[symbol], symbol, on)
}
