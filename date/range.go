package date

import "fmt"

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange return a well known period
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// Days returns the number of calendar days covered by the range, boundaries included.
func (r Range) Days() int { return r.From.DaysUntil(r.To) + 1 }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
