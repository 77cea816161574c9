package store

import (
	"errors"
	"testing"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/market"
	"github.com/adityazagade/stockscanner/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const benchmark = "NIFTY 50"

var start = date.New(2020, 1, 1)

func newMarket(t *testing.T) *market.Memory {
	t.Helper()
	m := market.NewMemory()
	for i := 0; i < 30; i++ {
		c := 100 + float64(i)
		require.NoError(t, m.AddBars(benchmark, stockscanner.Bar{Date: start.Add(i), Open: c, High: c, Low: c, Close: c}))
	}
	return m
}

func newPortfolio(t *testing.T, src stockscanner.PriceSource, name, strategyName string) *stockscanner.Portfolio {
	t.Helper()
	p, err := stockscanner.Build(src, stockscanner.Blueprint{
		Name:         name,
		Capital:      100000,
		Weights:      stockscanner.Weights{stockscanner.Equity: 0.6, stockscanner.Debt: 0.4},
		Equities:     []string{benchmark},
		Debts:        []string{stockscanner.SavingsAccount},
		On:           start,
		InterestRate: 4,
		Strict:       true,
	})
	require.NoError(t, err)
	if strategyName == "SIP" {
		sip, err := strategy.NewSIP(start, 1000, date.Daily)
		require.NoError(t, err)
		p.Apply(sip)
	} else if strategyName != "" {
		p.Apply(strategy.BuyAndHold{})
	}
	return p
}

// checkStore exercises the behaviour every store shares.
func checkStore(t *testing.T, s stockscanner.PortfolioStore, src stockscanner.PriceSource) {
	t.Helper()
	_, err := s.Load("missing")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	all, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, all)

	p := newPortfolio(t, src, "retirement", "BuyAndHold")
	q := newPortfolio(t, src, "kids", "SIP")
	r := newPortfolio(t, src, "cash", "")
	for _, x := range []*stockscanner.Portfolio{p, q, r} {
		require.NoError(t, s.Save(x))
	}

	got, err := s.Load(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "retirement", got.Name)
	assert.Equal(t, "BuyAndHold", got.StrategyName())
	assert.Nil(t, got.Strategy(), "strategies are bound by the caller")
	on := start.Add(10)
	want, err := p.Value(on)
	require.NoError(t, err)
	value, err := got.Value(on)
	require.NoError(t, err, "a loaded portfolio is bound to the price source")
	assert.True(t, want.Equal(value), "value %v, want %v", value, want)

	// saving again replaces the portfolio.
	require.NoError(t, p.AddEquitiesByAmount(stockscanner.M(1000, "INR"), on))
	require.NoError(t, s.Save(p))
	got, err = s.Load(p.ID)
	require.NoError(t, err)
	assert.True(t, p.TotalInvested().Equal(got.TotalInvested()))

	all, err = s.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"cash", "kids", "retirement"}, []string{all[0].Name, all[1].Name, all[2].Name})

	following, err := FollowingStrategy(s, "SIP")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, q.ID, following[0].ID)

	following, err = FollowingStrategy(s, "PEBasedAllocation")
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestFolder(t *testing.T) {
	src := newMarket(t)
	s, err := NewFolder(t.TempDir(), src)
	require.NoError(t, err)
	checkStore(t, s, src)
}

func TestSQLite(t *testing.T) {
	src := newMarket(t)
	s, err := NewSQLite(":memory:", src)
	require.NoError(t, err)
	defer s.Close()
	checkStore(t, s, src)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open("fs", dir, nil)
	require.NoError(t, err)
	assert.IsType(t, &Folder{}, s)

	s, err = Open("sqlite", dir, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	s.(*SQLite).Close()

	_, err = Open("s3", dir, nil)
	assert.Error(t, err)
}
