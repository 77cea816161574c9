package renderer

import (
	"fmt"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/backtest"
	"github.com/adityazagade/stockscanner/date"
)

// Backtest is the rendered view of a backtest report.
type Backtest struct {
	Strategy    string
	Benchmark   string
	From        date.Date
	To          date.Date
	Days        int
	Performance BacktestPerformance
	// Portfolio is the final portfolio, valued on the last day.
	Portfolio *Portfolio
}

// BacktestPerformance holds the metrics in their display types.
type BacktestPerformance struct {
	StartValue      stockscanner.Money
	EndValue        stockscanner.Money
	Contributed     stockscanner.Money
	Gain            stockscanner.Money
	TotalReturn     stockscanner.Percent
	TimeWeighted    stockscanner.Percent
	CAGR            stockscanner.Percent
	BenchmarkReturn stockscanner.Percent
	MaxDrawdown     stockscanner.Percent
	Volatility      stockscanner.Percent
	Sharpe          string
	Rebalances      int
}

// NewBacktest prepares a report for rendering.
func NewBacktest(r *backtest.Report) (*Backtest, error) {
	span := r.Range()
	perf := r.Performance()
	cur := r.Portfolio.Currency
	b := &Backtest{
		Strategy:  r.Strategy,
		Benchmark: r.Benchmark,
		From:      span.From,
		To:        span.To,
		Days:      perf.Days,
		Performance: BacktestPerformance{
			StartValue:      stockscanner.M(perf.StartValue, cur).Round(2),
			EndValue:        stockscanner.M(perf.EndValue, cur).Round(2),
			Contributed:     stockscanner.M(perf.Contributed, cur).Round(2),
			Gain:            stockscanner.M(perf.EndValue-perf.Contributed, cur).Round(2),
			TotalReturn:     stockscanner.Ratio(perf.TotalReturn),
			TimeWeighted:    stockscanner.Ratio(perf.TimeWeighted),
			CAGR:            stockscanner.Ratio(perf.CAGR),
			BenchmarkReturn: stockscanner.Ratio(perf.BenchmarkReturn),
			MaxDrawdown:     stockscanner.Ratio(perf.MaxDrawdown),
			Volatility:      stockscanner.Ratio(perf.Volatility),
			Sharpe:          fmt.Sprintf("%.2f", perf.Sharpe),
			Rebalances:      perf.Rebalances,
		},
	}
	if r.Values().Len() == 0 {
		return b, nil
	}
	p, err := NewPortfolio(r.Portfolio, span.To)
	if err != nil {
		return nil, err
	}
	b.Portfolio = p
	return b, nil
}

// BacktestMarkdown renders a backtest report.
func BacktestMarkdown(r *backtest.Report, opts BacktestRenderOptions) (string, error) {
	b, err := NewBacktest(r)
	if err != nil {
		return "", err
	}
	return RenderBacktest(b, opts), nil
}
