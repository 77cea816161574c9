package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// Report is the outcome of a backtest: the final portfolio and its daily
// value trace.
type Report struct {
	Portfolio *stockscanner.Portfolio
	Strategy  string
	Benchmark string

	values     date.History[float64] // portfolio value, before the strategy runs
	flows      date.History[float64] // value added by applying the strategy
	invested   date.History[float64] // total invested
	closes     date.History[float64] // benchmark close
	rebalances int
}

// Sample is a day of the value trace.
type Sample struct {
	Date     date.Date
	Value    float64 // before the strategy runs
	Flow     float64 // value added by the strategy
	Invested float64
	Close    float64 // benchmark close
}

func newReport(p *stockscanner.Portfolio, benchmark string) *Report {
	return &Report{Portfolio: p, Strategy: p.StrategyName(), Benchmark: benchmark}
}

// track records the portfolio on a day.
func (r *Report) track(on date.Date, closing float64) error {
	v, err := r.Portfolio.Value(on)
	if err != nil {
		return fmt.Errorf("valuing portfolio on %s: %w", on, err)
	}
	r.values.Append(on, v.AsFloat())
	r.invested.Append(on, r.Portfolio.TotalInvested().AsFloat())
	r.closes.Append(on, closing)
	return nil
}

// applied records the value the strategy added to the portfolio on a day,
// which is zero for a pure rebalance and the contribution of a SIP.
func (r *Report) applied(on date.Date) error {
	v, err := r.Portfolio.Value(on)
	if err != nil {
		return fmt.Errorf("valuing portfolio on %s: %w", on, err)
	}
	_, prev := r.values.Latest()
	r.flows.Append(on, v.AsFloat()-prev)
	r.invested.Append(on, r.Portfolio.TotalInvested().AsFloat())
	return nil
}

// Values returns the portfolio value trace.
func (r *Report) Values() *date.History[float64] { return &r.values }

// Rebalances returns how many times the strategy was applied.
func (r *Report) Rebalances() int { return r.rebalances }

// Range returns the first and last day of the trace.
func (r *Report) Range() date.Range {
	from, _ := r.values.First()
	to, _ := r.values.Latest()
	return date.Range{From: from, To: to}
}

// Samples returns the trace in chronological order.
func (r *Report) Samples() []Sample {
	samples := make([]Sample, 0, r.values.Len())
	for on, v := range r.values.Values() {
		invested, _ := r.invested.ValueAsOf(on)
		closing, _ := r.closes.ValueAsOf(on)
		flow, _ := r.flows.Get(on)
		samples = append(samples, Sample{Date: on, Value: v, Flow: flow, Invested: invested, Close: closing})
	}
	return samples
}

// WriteCSV writes the trace as date,value,flow,invested,close rows.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "value", "flow", "invested", "close"}); err != nil {
		return err
	}
	for _, s := range r.Samples() {
		row := []string{s.Date.String(), formatF(s.Value), formatF(s.Flow), formatF(s.Invested), formatF(s.Close)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }
