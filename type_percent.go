package stockscanner

import "fmt"

// Percent is a ratio expressed in percent (50 for one half).
type Percent float64

// Ratio converts a fraction (0.5) into a Percent (50%).
func Ratio(f float64) Percent { return Percent(f * 100) }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}
