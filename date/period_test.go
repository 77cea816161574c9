package date

import (
	"testing"
	"time"
)

func NewDailyRange(d Date) Range {
	return NewRange(d, Daily)
}
func NewWeeklyRange(d Date) Range {
	return NewRange(d, Weekly)
}
func NewMonthlyRange(d Date) Range {
	return NewRange(d, Monthly)
}
func NewQuarterlyRange(d Date) Range {
	return NewRange(d, Quarterly)
}
func NewYearlyRange(d Date) Range {
	return NewRange(d, Yearly)
}

func TestNewDailyRange(t *testing.T) {
	d := New(2025, time.September, 8)
	want := Range{From: d, To: d}
	got := NewDailyRange(d)
	if got != want {
		t.Errorf("NewDailyRange() = %v, want %v", got, want)
	}
}

func TestNewWeeklyRange(t *testing.T) {
	testCases := []struct {
		name string
		in   Date
		want Range
	}{
		{
			name: "A Wednesday",
			in:   New(2025, time.September, 10),
			want: Range{From: New(2025, time.September, 8), To: New(2025, time.September, 14)},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewWeeklyRange(tc.in); got != tc.want {
				t.Errorf("NewWeeklyRange() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewMonthlyRange(t *testing.T) {
	testCases := []struct {
		name string
		in   Date
		want Range
	}{
		{
			name: "A leap year",
			in:   New(2024, time.February, 15),
			want: Range{From: New(2024, time.February, 1), To: New(2024, time.February, 29)},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewMonthlyRange(tc.in); got != tc.want {
				t.Errorf("NewMonthlyRange() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewQuarterlyRange(t *testing.T) {
	testCases := []struct {
		name string
		in   Date
		want Range
	}{
		{
			name: "Q2",
			in:   New(2025, time.May, 20),
			want: Range{From: New(2025, time.April, 1), To: New(2025, time.June, 30)},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewQuarterlyRange(tc.in); got != tc.want {
				t.Errorf("NewQuarterlyRange() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewYearlyRange(t *testing.T) {
	d := New(2025, time.September, 8)
	want := Range{From: New(2025, time.January, 1), To: New(2025, time.December, 31)}
	got := NewYearlyRange(d)
	if got != want {
		t.Errorf("NewYearlyRange() = %v, want %v", got, want)
	}
}

func TestRange_Days(t *testing.T) {
	testCases := []struct {
		name string
		in   Range
		want int
	}{
		{"Single Day", NewDailyRange(New(2025, time.September, 8)), 1},
		{"Standard Week", NewWeeklyRange(New(2025, time.September, 8)), 7},
		{"Leap Year Month", NewMonthlyRange(New(2024, time.February, 1)), 29},
		{"Leap Year", NewYearlyRange(New(2024, time.March, 1)), 366},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Days(); got != tc.want {
				t.Errorf("Days() = %d, want %d", got, tc.want)
			}
			if !tc.in.Contains(tc.in.From) || !tc.in.Contains(tc.in.To) {
				t.Errorf("Contains() must include the boundaries of %v", tc.in)
			}
			if tc.in.Contains(tc.in.To.Add(1)) {
				t.Errorf("Contains(%v) = true, want false", tc.in.To.Add(1))
			}
		})
	}
}

func TestPeriod_Due(t *testing.T) {
	anchor := New(2020, time.January, 15) // a Wednesday
	testCases := []struct {
		name   string
		period Period
		on     Date
		want   bool
	}{
		{"daily on anchor", Daily, anchor, true},
		{"daily after", Daily, New(2020, time.March, 2), true},
		{"daily before", Daily, New(2020, time.January, 14), false},
		{"weekly same weekday", Weekly, New(2020, time.January, 22), true},
		{"weekly other weekday", Weekly, New(2020, time.January, 23), false},
		{"weekly same weekday before", Weekly, New(2020, time.January, 8), false},
		{"monthly same day", Monthly, New(2020, time.February, 15), true},
		{"monthly other day", Monthly, New(2020, time.February, 14), false},
		{"quarterly", Quarterly, New(2020, time.April, 15), true},
		{"quarterly off month", Quarterly, New(2020, time.March, 15), false},
		{"yearly", Yearly, New(2021, time.January, 15), true},
		{"yearly off month", Yearly, New(2021, time.February, 15), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.period.Due(anchor, tc.on); got != tc.want {
				t.Errorf("%v.Due(%v, %v) = %v, want %v", tc.period, anchor, tc.on, got, tc.want)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    Period
		wantErr bool
	}{
		{"Daily", "daily", Daily, false},
		{"Weekly", "weekly", Weekly, false},
		{"Monthly", "monthly", Monthly, false},
		{"Quarterly", "quarterly", Quarterly, false},
		{"Yearly", "yearly", Yearly, false},
		{"Unknown", "unknown", Daily, true},
		{"Daily", "day", Daily, false},
		{"Weekly", "week", Weekly, false},
		{"Monthly", "month", Monthly, false},
		{"Quarterly", "quarter", Quarterly, false},
		{"Yearly", "year", Yearly, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePeriod(tc.in)
			if (err != nil) != tc.wantErr {
				t.Errorf("ParsePeriod() error = %v, wantErr %v", err, tc.wantErr)
				return
			}
			if got != tc.want {
				t.Errorf("ParsePeriod() = %v, want %v", got, tc.want)
			}
		})
	}
}
