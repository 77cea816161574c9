package stockscanner

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolding_AverageBuyPriceThenFIFO(t *testing.T) {
	h := NewHolding("INFY")
	h.Add(day(time.January, 1), Q(10), INR(100))
	h.Add(day(time.January, 5), Q(5), INR(200))

	avg, err := h.AverageBuyPrice()
	require.NoError(t, err)
	assert.True(t, avg.Round(2).Equal(INR(133.33)), "AverageBuyPrice() = %v, want 133.33", avg)

	require.NoError(t, h.Remove(Q(12)))
	lots := h.Lots()
	require.Len(t, lots, 1)
	assert.Equal(t, day(time.January, 5), lots[0].Date)
	assert.True(t, lots[0].Quantity.Equal(Q(3)), "remaining quantity = %v, want 3", lots[0].Quantity)
	assert.True(t, lots[0].Price.Equal(INR(200)), "remaining price = %v, want 200", lots[0].Price)
}

func TestHolding_Remove(t *testing.T) {
	type lot struct{ q, p float64 }
	testCases := []struct {
		name   string
		adds   []lot
		remove float64
		want   []lot
	}{
		{"less than oldest", []lot{{10, 1}, {5, 2}}, 4, []lot{{6, 1}, {5, 2}}},
		{"exactly oldest", []lot{{10, 1}, {5, 2}}, 10, []lot{{5, 2}}},
		{"across lots", []lot{{10, 1}, {5, 2}, {7, 3}}, 16, []lot{{6, 3}}},
		{"everything", []lot{{10, 1}, {5, 2}}, 15, nil},
		{"nothing", []lot{{10, 1}}, 0, []lot{{10, 1}}},
		{"fractional", []lot{{0.5, 1}, {0.25, 2}}, 0.6, []lot{{0.15, 2}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHolding("X")
			total := Q(0)
			for i, a := range tc.adds {
				h.Add(day(time.March, i+1), Q(a.q), INR(a.p))
				total = total.Add(Q(a.q))
			}
			require.NoError(t, h.Remove(Q(tc.remove)))

			got := h.Lots()
			require.Len(t, got, len(tc.want))
			for i, w := range tc.want {
				assert.True(t, got[i].Quantity.Equal(Q(w.q)), "lot %d quantity = %v, want %v", i, got[i].Quantity, w.q)
				assert.True(t, got[i].Price.Equal(INR(w.p)), "lot %d price = %v, want %v", i, got[i].Price, w.p)
			}
			assert.True(t, h.Quantity().Equal(total.Sub(Q(tc.remove))), "Quantity() = %v, want %v", h.Quantity(), total.Sub(Q(tc.remove)))
		})
	}
}

func TestHolding_RemoveGuard(t *testing.T) {
	h := NewHolding("TCS")
	h.Add(day(time.January, 1), Q(10), INR(100))
	h.Add(day(time.January, 2), Q(5), INR(110))
	before := h.Lots()

	err := h.Remove(Q(15.5))
	assert.True(t, errors.Is(err, ErrInsufficientQuantity), "Remove() error = %v, want %v", err, ErrInsufficientQuantity)
	assert.Equal(t, before, h.Lots())
}

func TestHolding_RemoveNegative(t *testing.T) {
	h := NewHolding("TCS")
	h.Add(day(time.January, 1), Q(10), INR(100))
	before := h.Lots()

	assert.Error(t, h.Remove(Q(-3)))
	assert.Equal(t, before, h.Lots())
}

func TestHolding_AverageBuyPriceEmpty(t *testing.T) {
	h := NewHolding("TCS")
	_, err := h.AverageBuyPrice()
	assert.ErrorIs(t, err, ErrEmptyLedger)

	h.Add(day(time.January, 1), Q(1), INR(10))
	require.NoError(t, h.Remove(Q(1)))
	_, err = h.AverageBuyPrice()
	assert.ErrorIs(t, err, ErrEmptyLedger)
}

func TestHolding_Invested(t *testing.T) {
	h := NewHolding("TCS")
	h.Add(day(time.January, 1), Q(10), INR(100))
	h.Add(day(time.January, 2), Q(5), INR(200))
	require.NoError(t, h.Remove(Q(4)))
	// 6 lots at 100 and 5 at 200
	assert.True(t, h.Invested().Equal(INR(1600)), "Invested() = %v, want 1600", h.Invested())
}

func TestHolding_Value(t *testing.T) {
	// 2020-01-03 is a Friday, the market is closed on the week-end.
	src := fakeMarket{}.set("TCS", day(time.January, 1), 3, 120)
	h := NewHolding("TCS")
	h.Add(day(time.January, 1), Q(10), INR(100))

	testCases := []struct {
		name    string
		on      time.Month
		d       int
		want    float64
		wantErr error
	}{
		{"trading day", time.January, 2, 1200, nil},
		{"week-end", time.January, 5, 1200, nil},
		{"last day of the lookback", time.January, 8, 1200, nil},
		{"lookback exhausted", time.January, 9, 0, ErrNoData},
		{"before any price", time.January, 0, 0, ErrNoData},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := h.Value(src, day(tc.on, tc.d))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(INR(tc.want)), "Value() = %v, want %v", got, tc.want)
		})
	}
}

func TestSavingsHolding_Value(t *testing.T) {
	h := NewSavingsHolding(SavingsAccount, 3.65)
	h.Add(day(time.January, 1), Q(1000), INR(1))
	h.Add(day(time.January, 21), Q(500), INR(1))

	// rate 3.65% per year is 0.01% per day.
	want := 1000 * math.Pow(1.0001, 10)
	got, err := h.Value(nil, day(time.January, 11))
	require.NoError(t, err)
	assert.InDelta(t, want, got.AsFloat(), 1e-6)

	// lots are valued from their own day, the same day included.
	want = 1000*math.Pow(1.0001, 20) + 500
	got, err = h.Value(nil, day(time.January, 21))
	require.NoError(t, err)
	assert.InDelta(t, want, got.AsFloat(), 1e-6)
}

func TestSavingsHolding_Withdraw(t *testing.T) {
	h := NewSavingsHolding(SavingsAccount, 0)
	h.Add(day(time.January, 1), Q(1000), INR(1))
	h.Add(day(time.January, 11), Q(1000), INR(1))

	require.NoError(t, h.withdraw(INR(1500), day(time.January, 20)))
	lots := h.Lots()
	require.Len(t, lots, 1)
	assert.Equal(t, day(time.January, 11), lots[0].Date)
	assert.True(t, lots[0].Quantity.Equal(Q(500)), "remaining quantity = %v, want 500", lots[0].Quantity)

	err := h.withdraw(INR(501), day(time.January, 20))
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
	assert.Len(t, h.Lots(), 1)
}

func TestSavingsHolding_WithdrawAccrued(t *testing.T) {
	h := NewSavingsHolding(SavingsAccount, 7.3)
	h.Add(day(time.January, 1), Q(1000), INR(1))
	h.Add(day(time.February, 1), Q(1000), INR(1))
	on := day(time.June, 1)

	before, err := h.Value(nil, on)
	require.NoError(t, err)
	require.NoError(t, h.withdraw(INR(700), on))
	after, err := h.Value(nil, on)
	require.NoError(t, err)

	assert.InDelta(t, before.AsFloat()-700, after.AsFloat(), 1e-6)
	assert.Len(t, h.Lots(), 2)
}
