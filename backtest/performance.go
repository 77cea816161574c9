package backtest

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// tradingDays is the number of trading days in a year.
const tradingDays = 252

// Performance summarizes a backtest.
type Performance struct {
	StartValue      float64
	EndValue        float64
	Contributed     float64 // initial value plus the strategy contributions
	Invested        float64 // cost basis of the final portfolio
	TotalReturn     float64 // (EndValue - Contributed) / Contributed
	TimeWeighted    float64 // return net of contributions
	CAGR            float64 // annualized time weighted return
	MaxDrawdown     float64 // positive fraction, 0.25 is a 25% loss from peak
	Volatility      float64 // annualized standard deviation of daily returns
	Sharpe          float64 // annualized mean over volatility, no risk free rate
	BenchmarkReturn float64
	Rebalances      int
	Days            int
}

// Performance computes the metrics of the value trace.
func (r *Report) Performance() Performance {
	samples := r.Samples()
	perf := Performance{Rebalances: r.rebalances}
	if len(samples) == 0 {
		return perf
	}
	first, last := samples[0], samples[len(samples)-1]
	perf.Days = r.Range().Days()
	perf.StartValue = first.Value
	perf.EndValue = last.Value + last.Flow
	perf.Invested = last.Invested
	perf.Contributed = first.Value
	for _, s := range samples {
		if s.Flow > 0 {
			perf.Contributed += s.Flow
		}
	}
	if perf.Contributed > 0 {
		perf.TotalReturn = (perf.EndValue - perf.Contributed) / perf.Contributed
	}
	if first.Close > 0 {
		perf.BenchmarkReturn = last.Close/first.Close - 1
	}

	returns := dailyReturns(samples)
	index := growth(returns)
	if len(index) > 0 {
		perf.TimeWeighted = index[len(index)-1] - 1
	}
	if perf.Days > 1 && perf.TimeWeighted > -1 {
		perf.CAGR = math.Pow(1+perf.TimeWeighted, 365/float64(perf.Days-1)) - 1
	}
	perf.MaxDrawdown = maxDrawdown(index)
	if len(returns) > 1 {
		mean, std := stat.MeanStdDev(returns, nil)
		perf.Volatility = std * math.Sqrt(tradingDays)
		if std > 0 {
			perf.Sharpe = mean / std * math.Sqrt(tradingDays)
		}
	}
	return perf
}

// dailyReturns returns the day over day returns of the trace, each day
// starting from the previous day's value after the strategy ran.
func dailyReturns(samples []Sample) []float64 {
	returns := make([]float64, 0, len(samples))
	for i := 1; i < len(samples); i++ {
		prev := samples[i-1].Value + samples[i-1].Flow
		if prev <= 0 {
			continue
		}
		returns = append(returns, samples[i].Value/prev-1)
	}
	return returns
}

// growth compounds returns into a unit index, starting at 1.
func growth(returns []float64) []float64 {
	index := make([]float64, 0, len(returns)+1)
	v := 1.0
	index = append(index, v)
	for _, r := range returns {
		v *= 1 + r
		index = append(index, v)
	}
	return index
}

// maxDrawdown returns the largest peak to trough loss of a series.
func maxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	worst, peak := 0.0, values[0]
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
