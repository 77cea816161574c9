package strategy

import (
	"fmt"
	"math"
	"sort"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
	"gonum.org/v1/gonum/stat"
)

// Curve maps the percentile of the current P/E within its trailing
// distribution onto an equity weight: the cheaper the market compared to its
// history, the higher the equity weight.
type Curve struct {
	High  float64 // equity weight when the P/E is the lowest seen
	Low   float64 // equity weight when the P/E is the highest seen
	Years int     // trailing window
}

// DefaultCurve allocates from 80% down to 50% equity over 5 years of P/E.
var DefaultCurve = Curve{High: 0.80, Low: 0.50, Years: 5}

// Bin is a P/E interval of the distribution, From included, To excluded.
type Bin struct {
	From, To    float64
	Probability float64
	Cumulative  float64
	Weight      float64
}

// Bins splits P/E values into max(1, ⌈max−min⌉) bins of equal width.
func (c Curve) Bins(pes []float64) []Bin {
	if len(pes) == 0 {
		return nil
	}
	x := append([]float64(nil), pes...)
	sort.Float64s(x)
	lo, hi := x[0], x[len(x)-1]
	n := max(1, int(math.Ceil(hi-lo)))
	width := (hi - lo) / float64(n)

	dividers := make([]float64, n+1)
	for i := range dividers {
		dividers[i] = lo + float64(i)*width
	}
	// the last bin must include the maximum
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)
	bins := make([]Bin, n)
	var cumulative float64
	for i, count := range counts {
		p := count / float64(len(x))
		cumulative += p
		bins[i] = Bin{
			From:        dividers[i],
			To:          dividers[i+1],
			Probability: p,
			Cumulative:  cumulative,
			Weight:      c.weight(cumulative),
		}
	}
	return bins
}

// weight is rounded to a hundredth of a percent.
func (c Curve) weight(cumulative float64) float64 {
	w := c.High - (c.High-c.Low)*math.Min(1, cumulative)
	return math.Round(w*1e4) / 1e4
}

// Weight returns the equity weight of the bin containing a P/E value.
func (c Curve) Weight(pes []float64, current float64) (float64, error) {
	for _, b := range c.Bins(pes) {
		if b.From <= current && current < b.To {
			return b.Weight, nil
		}
	}
	return 0, fmt.Errorf("P/E %v is out of the distribution of %d values: %w", current, len(pes), stockscanner.ErrWeightResolution)
}

// Window returns the P/E values of the trailing window ending on a day, and
// the latest of them.
func (c Curve) Window(on date.Date, history stockscanner.Quotes) ([]float64, float64, error) {
	years := c.Years
	if years <= 0 {
		years = DefaultCurve.Years
	}
	window := history.Between(date.Range{From: on.Add(-365 * years), To: on})
	pes := window.PEs()
	current, ok := window.LastPE()
	if !ok {
		return nil, 0, fmt.Errorf("no P/E between %s and %s: %w", on.Add(-365*years), on, stockscanner.ErrNoData)
	}
	return pes, current, nil
}

// EquityWeight returns the equity weight on a day given the benchmark history.
func (c Curve) EquityWeight(on date.Date, history stockscanner.Quotes) (float64, error) {
	pes, current, err := c.Window(on, history)
	if err != nil {
		return 0, err
	}
	return c.Weight(pes, current)
}
