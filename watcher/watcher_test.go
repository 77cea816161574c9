package watcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/market"
	"github.com/adityazagade/stockscanner/store"
	"github.com/adityazagade/stockscanner/strategy"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const benchmark = "NIFTY 50"

var start = date.New(2020, 1, 1)

type fixture struct {
	market     *market.Memory
	portfolios *store.Folder
	sip        *strategy.SIP
	follower   *stockscanner.Portfolio // follows the SIP
	other      *stockscanner.Portfolio // buy and hold
}

func newFixture(t *testing.T, withPE bool) *fixture {
	t.Helper()
	m := market.NewMemory()
	for i := 0; i < 60; i++ {
		on := start.Add(i)
		require.NoError(t, m.AddBars(benchmark, stockscanner.Bar{Date: on, Open: 100, High: 100, Low: 100, Close: 100}))
		if withPE {
			require.NoError(t, m.AddFundamentals(benchmark, stockscanner.Fundamental{Date: on, PE: 20 + float64(i%4)}))
		}
	}
	portfolios, err := store.NewFolder(t.TempDir(), m)
	require.NoError(t, err)
	sip, err := strategy.NewSIP(start, 1000, date.Monthly)
	require.NoError(t, err)

	f := &fixture{market: m, portfolios: portfolios, sip: sip}
	newPortfolio := func(name string, s strategy.Strategy) *stockscanner.Portfolio {
		p, err := stockscanner.Build(m, stockscanner.Blueprint{
			Name: name, Capital: 10000, Weights: stockscanner.Weights{stockscanner.Equity: 1},
			Equities: []string{benchmark}, On: start, Strict: true,
		})
		require.NoError(t, err)
		p.Apply(s)
		require.NoError(t, portfolios.Save(p))
		return p
	}
	f.follower = newPortfolio("kids", sip)
	f.other = newPortfolio("retirement", strategy.BuyAndHold{})
	return f
}

func (f *fixture) watcher(log zerolog.Logger, strategies ...strategy.Strategy) *Watcher {
	return New(Config{Schedule: "@every 1h", Benchmark: benchmark}, f.market, f.portfolios, strategy.NewRegistry(strategies...), log)
}

func TestRun_AppliesToFollowers(t *testing.T) {
	f := newFixture(t, false)
	w := f.watcher(zerolog.New(io.Discard), f.sip, strategy.BuyAndHold{})

	res, err := w.Run(context.Background(), date.New(2020, 1, 20))
	require.NoError(t, err)
	assert.Empty(t, res.Triggered, "not a SIP day")

	on := date.New(2020, 2, 1)
	res, err = w.Run(context.Background(), on)
	require.NoError(t, err)
	assert.Equal(t, []string{"SIP"}, res.Triggered)
	assert.Equal(t, 1, res.Applied)

	got, err := f.portfolios.Load(f.follower.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalInvested().Equal(stockscanner.M(11000, "INR")), "invested %v", got.TotalInvested())
	trades := got.Trades()
	require.Len(t, trades, 2)
	assert.Equal(t, on, trades[1].Date)

	other, err := f.portfolios.Load(f.other.ID)
	require.NoError(t, err)
	assert.Len(t, other.Trades(), 1, "buy and hold never triggers")
}

func TestRun_FailuresDoNotStopOthers(t *testing.T) {
	f := newFixture(t, false)
	// without P/E data the allocation strategies cannot be armed.
	pe, err := strategy.NewPEBased(5, strategy.DefaultCurve)
	require.NoError(t, err)
	var buf bytes.Buffer
	w := f.watcher(zerolog.New(&buf), f.sip, pe)

	res, err := w.Run(context.Background(), date.New(2020, 2, 1))
	require.Error(t, err)
	assert.ErrorContains(t, err, "PEBasedAllocation")
	assert.Equal(t, []string{"SIP"}, res.Triggered)
	assert.Equal(t, 1, res.Applied)
	assert.Contains(t, buf.String(), "strategy not armed")
}

func TestRun_ArmsOnce(t *testing.T) {
	f := newFixture(t, true)
	mm, err := strategy.NewMarketMovement(5, strategy.DefaultCurve)
	require.NoError(t, err)
	w := f.watcher(zerolog.New(io.Discard), mm)

	res, err := w.Run(context.Background(), date.New(2020, 1, 20))
	require.NoError(t, err)
	assert.Empty(t, res.Triggered)
	assert.Equal(t, 100.0, mm.Pivot())

	// the close jumps, the pivot set when arming is kept.
	require.NoError(t, f.market.AddBars(benchmark, stockscanner.Bar{Date: date.New(2020, 1, 21), Close: 110}))
	res, err = w.Run(context.Background(), date.New(2020, 1, 21))
	require.NoError(t, err)
	assert.Equal(t, []string{"MarketMovementBasedAllocation"}, res.Triggered)
	assert.Equal(t, 0, res.Applied, "no portfolio follows it")
	assert.Equal(t, 100.0, mm.Pivot(), "the pivot moves when applied to a portfolio")
}

func TestRun_Refresh(t *testing.T) {
	f := newFixture(t, false)
	refreshed := 0
	w := New(Config{Benchmark: benchmark, Refresh: func(context.Context) error {
		refreshed++
		return f.market.AddBars(benchmark, stockscanner.Bar{Date: date.New(2020, 3, 1), Close: 125})
	}}, f.market, f.portfolios, strategy.NewRegistry(f.sip), zerolog.New(io.Discard))

	res, err := w.Run(context.Background(), date.New(2020, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)
	assert.Equal(t, 1, res.Applied)

	got, err := f.portfolios.Load(f.follower.ID)
	require.NoError(t, err)
	trades := got.Trades()
	require.Len(t, trades, 2)
	assert.True(t, trades[1].Price.Equal(stockscanner.M(125, "INR")), "bought at the refreshed close, got %v", trades[1].Price)
}

func TestRun_UnknownBenchmark(t *testing.T) {
	f := newFixture(t, false)
	w := New(Config{Benchmark: "SENSEX"}, f.market, f.portfolios, strategy.NewRegistry(f.sip), zerolog.New(io.Discard))
	_, err := w.Run(context.Background(), start)
	assert.True(t, errors.Is(err, stockscanner.ErrNoData), "got %v", err)
}

func TestStartStop(t *testing.T) {
	f := newFixture(t, false)
	w := f.watcher(zerolog.New(io.Discard), f.sip)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()

	w = New(Config{Schedule: "every tuesday", Benchmark: benchmark}, f.market, f.portfolios, strategy.NewRegistry(), zerolog.New(io.Discard))
	assert.ErrorContains(t, w.Start(context.Background()), "invalid schedule")
}
