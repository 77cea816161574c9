package stockscanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsset_AddIgnoresNonPositive(t *testing.T) {
	a := NewAsset(Equity, "INR", fakeMarket{})
	a.Add(AddLot{Symbol: "TCS", Quantity: Q(0), Date: day(time.January, 1), Price: INR(10)})
	a.Add(AddLot{Symbol: "TCS", Quantity: Q(1), Date: day(time.January, 1), Price: INR(0)})
	a.Add(AddLot{Symbol: "TCS", Quantity: Q(-1), Date: day(time.January, 1), Price: INR(10)})

	_, ok := a.Holding("TCS")
	assert.False(t, ok)
	assert.Empty(t, a.Trades())
}

func TestAsset_AddRemove(t *testing.T) {
	a := NewAsset(Equity, "INR", fakeMarket{})
	a.Add(AddLot{Symbol: "TCS", Quantity: Q(10), Date: day(time.January, 1), Price: INR(10)})
	a.Add(AddLot{Symbol: "TCS", Quantity: Q(5), Date: day(time.January, 2), Price: INR(12)})

	require.NoError(t, a.Remove(RemoveLot{Symbol: "TCS", Quantity: Q(15), Date: day(time.January, 3), Price: INR(13)}))
	_, ok := a.Holding("TCS")
	assert.False(t, ok, "a sold out holding must be dropped")

	trades := a.Trades()
	require.Len(t, trades, 3)
	assert.Equal(t, []Action{Buy, Buy, Sell}, []Action{trades[0].Action, trades[1].Action, trades[2].Action})
	assert.True(t, trades[2].Amount().Equal(INR(195)), "sell amount = %v, want 195", trades[2].Amount())

	err := a.Remove(RemoveLot{Symbol: "TCS", Quantity: Q(1), Date: day(time.January, 4), Price: INR(13)})
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
	assert.Len(t, a.Trades(), 3)
}

func TestAsset_AmountsAreSplitEqually(t *testing.T) {
	src := fakeMarket{}.
		set("TCS", day(time.January, 1), 10, 100).
		set("INFY", day(time.January, 1), 10, 50)
	a := NewAsset(Equity, "INR", src)
	a.Track(Instrument{Symbol: "TCS"})
	a.Track(Instrument{Symbol: "INFY"})

	require.NoError(t, a.AddAmount(INR(1000), day(time.January, 2)))
	tcs, _ := a.Holding("TCS")
	infy, _ := a.Holding("INFY")
	assert.True(t, tcs.Quantity().Equal(Q(5)), "TCS quantity = %v, want 5", tcs.Quantity())
	assert.True(t, infy.Quantity().Equal(Q(10)), "INFY quantity = %v, want 10", infy.Quantity())

	require.NoError(t, a.ReduceAmount(INR(400), day(time.January, 3)))
	assert.True(t, tcs.Quantity().Equal(Q(3)), "TCS quantity = %v, want 3", tcs.Quantity())
	assert.True(t, infy.Quantity().Equal(Q(6)), "INFY quantity = %v, want 6", infy.Quantity())

	v, err := a.Value(day(time.January, 3))
	require.NoError(t, err)
	assert.True(t, v.Equal(INR(600)), "Value() = %v, want 600", v)
	assert.True(t, a.Invested().Equal(INR(600)), "Invested() = %v, want 600", a.Invested())
}

func TestAsset_AddAmountWithoutPriceIsAtomic(t *testing.T) {
	src := fakeMarket{}.set("TCS", day(time.January, 1), 10, 100)
	a := NewAsset(Equity, "INR", src)
	a.Track(Instrument{Symbol: "TCS"})
	a.Track(Instrument{Symbol: "WIPRO"})

	err := a.AddAmount(INR(1000), day(time.January, 2))
	assert.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, a.Trades())
}

func TestAsset_ReduceAmountSellsOut(t *testing.T) {
	src := fakeMarket{}.set("TCS", day(time.January, 1), 10, 3)
	a := NewAsset(Equity, "INR", src)
	a.Track(Instrument{Symbol: "TCS"})
	require.NoError(t, a.AddAmount(INR(100), day(time.January, 1)))

	v, err := a.Value(day(time.January, 2))
	require.NoError(t, err)
	require.NoError(t, a.ReduceAmount(v, day(time.January, 2)))
	_, ok := a.Holding("TCS")
	assert.False(t, ok)
}

func TestAsset_ReduceAmountOverSale(t *testing.T) {
	src := fakeMarket{}.set("TCS", day(time.January, 1), 10, 100)
	a := NewAsset(Equity, "INR", src)
	a.Track(Instrument{Symbol: "TCS"})
	a.Add(AddLot{Symbol: "TCS", Quantity: Q(10), Date: day(time.January, 1), Price: INR(100)})

	err := a.ReduceAmount(INR(5000), day(time.January, 2))
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
	h, ok := a.Holding("TCS")
	require.True(t, ok, "nothing is sold")
	assert.True(t, h.Quantity().Equal(Q(10)), "Quantity() = %v, want 10", h.Quantity())
	assert.Len(t, a.Trades(), 1)
}

func TestAsset_RemoveRejectsNonPositive(t *testing.T) {
	a := NewAsset(Equity, "INR", fakeMarket{})
	a.Add(AddLot{Symbol: "TCS", Quantity: Q(10), Date: day(time.January, 1), Price: INR(100)})

	for _, q := range []Quantity{Q(-5), Q(0)} {
		assert.Error(t, a.Remove(RemoveLot{Symbol: "TCS", Quantity: q, Date: day(time.January, 2), Price: INR(100)}))
	}
	h, _ := a.Holding("TCS")
	assert.True(t, h.Quantity().Equal(Q(10)), "Quantity() = %v, want 10", h.Quantity())
	assert.Len(t, a.Trades(), 1)
}

func TestAsset_Cash(t *testing.T) {
	a := NewAsset(Cash, "INR", nil)
	require.NoError(t, a.AddAmount(INR(100), day(time.January, 1)))
	a.Add(AddLot{Quantity: Q(2), Price: INR(25)})
	require.NoError(t, a.ReduceAmount(INR(30), day(time.January, 1)))

	v, err := a.Value(day(time.January, 1))
	require.NoError(t, err)
	assert.True(t, v.Equal(INR(120)), "Value() = %v, want 120", v)
	assert.True(t, a.Invested().Equal(INR(120)), "Invested() = %v, want 120", a.Invested())

	err = a.ReduceAmount(INR(121), day(time.January, 1))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	v, _ = a.Value(day(time.January, 1))
	assert.True(t, v.Equal(INR(120)), "Value() = %v, want 120", v)
	assert.Empty(t, a.Trades())
}

func TestAsset_Savings(t *testing.T) {
	a := NewAsset(Debt, "INR", nil)
	a.Track(Instrument{Symbol: SavingsAccount, Kind: Savings, Rate: 0})
	require.NoError(t, a.AddAmount(INR(1000), day(time.January, 1)))
	require.NoError(t, a.ReduceAmount(INR(250), day(time.February, 1)))

	v, err := a.Value(day(time.February, 1))
	require.NoError(t, err)
	assert.True(t, v.Equal(INR(750)), "Value() = %v, want 750", v)
	h, ok := a.Holding(SavingsAccount)
	require.True(t, ok)
	assert.Equal(t, Savings, h.Kind())
}
