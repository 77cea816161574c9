package strategy

import (
	"time"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

const benchmark = "NIFTY 50"

func day(y int, m time.Month, d int) date.Date { return date.New(y, m, d) }

// quotes returns daily quotes from a day, f giving the close and the P/E of each.
func quotes(from date.Date, n int, f func(i int) (close, pe float64)) stockscanner.Quotes {
	q := make(stockscanner.Quotes, n)
	for i := range q {
		c, pe := f(i)
		q[i] = stockscanner.Quote{
			Bar: stockscanner.Bar{Date: from.Add(i), Open: c, High: c, Low: c, Close: c},
			PE:  pe, HasFundamentals: true,
		}
	}
	return q
}

// source serves the benchmark quotes as a PriceSource.
type source stockscanner.Quotes

func (s source) bars() []stockscanner.Bar {
	bars := make([]stockscanner.Bar, len(s))
	for i, q := range s {
		bars[i] = q.Bar
	}
	return bars
}

func (s source) Bars(symbol string) ([]stockscanner.Bar, error) { return s.bars(), nil }

func (s source) Fundamentals(symbol string) ([]stockscanner.Fundamental, error) {
	f := make([]stockscanner.Fundamental, len(s))
	for i, q := range s {
		f[i] = stockscanner.Fundamental{Date: q.Date, PE: q.PE}
	}
	return f, nil
}

func (s source) BarAsOf(symbol string, on date.Date) (stockscanner.Bar, error) {
	return stockscanner.BarAsOf(s.bars(), symbol, on)
}

func (s source) Has(symbol string) bool { return symbol == benchmark }

// build prepares a strategy and builds its initial portfolio.
func build(s Strategy, history stockscanner.Quotes, on date.Date, capital float64) (*stockscanner.Portfolio, error) {
	bp, err := s.Prepare(Setup{Benchmark: benchmark, Capital: capital, Currency: "INR", InterestRate: 4}, on, history.Until(on))
	if err != nil {
		return nil, err
	}
	p, err := stockscanner.Build(source(history), bp)
	if err != nil {
		return nil, err
	}
	p.Apply(s)
	return p, nil
}
