package date

import (
	"fmt"
	"strings"
)

// Period is a calendar cadence.
type Period int

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// Due reports whether a cadence anchored on a day falls on another day: every
// day, the same weekday, the same day of the month, of the quarter, or of the
// year, on or after the anchor.
func (p Period) Due(anchor, on Date) bool {
	if on.Before(anchor) {
		return false
	}
	switch p {
	case Daily:
		return true
	case Weekly:
		return on.Weekday() == anchor.Weekday()
	case Monthly:
		return on.Day() == anchor.Day()
	case Quarterly:
		return on.Day() == anchor.Day() && (on.Month()-anchor.Month())%3 == 0
	case Yearly:
		return on.Day() == anchor.Day() && on.Month() == anchor.Month()
	default:
		return false
	}
}

// ParsePeriod parses a period name such as "monthly" or "month".
func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(p)
	switch p {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %q", p)
	}
}

// UnmarshalText lets configuration files use period names.
func (p *Period) UnmarshalText(b []byte) error {
	v, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Period) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
