package stockscanner

import (
	"testing"
	"time"

	"github.com/adityazagade/stockscanner/date"
	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	bars := []Bar{{Date: day(time.January, 1), Close: 10}, {Date: day(time.January, 2), Close: 11}, {Date: day(time.January, 3), Close: 12}}
	fundamentals := []Fundamental{{Date: day(time.January, 2), PE: 20}, {Date: day(time.January, 4), PE: 30}}

	quotes := Merge(bars, fundamentals)
	assert.Len(t, quotes, 3)
	assert.False(t, quotes[0].HasFundamentals)
	assert.True(t, quotes[1].HasFundamentals)
	assert.Equal(t, 20.0, quotes[1].PE)
	assert.Equal(t, []float64{20}, quotes.PEs())

	pe, ok := quotes.LastPE()
	assert.True(t, ok)
	assert.Equal(t, 20.0, pe)
}

func TestQuotes_Window(t *testing.T) {
	var quotes Quotes
	for d := 1; d <= 10; d++ {
		quotes = append(quotes, Quote{Bar: Bar{Date: day(time.January, d)}})
	}

	testCases := []struct {
		name      string
		got       Quotes
		wantFirst int
		wantLen   int
	}{
		{"Until", quotes.Until(day(time.January, 4)), 1, 4},
		{"Since", quotes.Since(day(time.January, 8)), 8, 3},
		{"Between", quotes.Between(date.Range{From: day(time.January, 3), To: day(time.January, 5)}), 3, 3},
		{"Until before", quotes.Until(day(time.January, 0)), 0, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, tc.got, tc.wantLen)
			if tc.wantLen > 0 {
				assert.Equal(t, day(time.January, tc.wantFirst), tc.got[0].Date)
			}
		})
	}

	last, ok := quotes.Last()
	assert.True(t, ok)
	assert.Equal(t, day(time.January, 10), last.Date)
	_, ok = Quotes(nil).Last()
	assert.False(t, ok)
}
