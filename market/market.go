// Package market implements the price sources of the scanner: an in-memory
// source, a human readable folder of JSONL files and a SQLite database, all
// fed from exchange CSV exports or the EODHD API.
package market

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// Store is a price source that can be written to.
type Store interface {
	stockscanner.PriceSource
	// AddBars merges bars into the series of a symbol, replacing rows of the same day.
	AddBars(symbol string, bars ...stockscanner.Bar) error
	// AddFundamentals merges fundamentals into the series of a symbol, replacing rows of the same day.
	AddFundamentals(symbol string, rows ...stockscanner.Fundamental) error
	// Symbols returns the symbols with prices, sorted.
	Symbols() ([]string, error)
}

// Open returns the store of a kind ("fs" or "sqlite") rooted in a data folder.
func Open(kind, dir string) (Store, error) {
	switch kind {
	case "fs":
		return NewFolder(dir)
	case "sqlite":
		return NewSQLite(filepath.Join(dir, "data.db"))
	default:
		return nil, fmt.Errorf("unknown market store %q", kind)
	}
}

// merge returns the union of two series sorted by day, rows of add winning
// over rows of old on the same day.
func merge[T any](old, add []T, day func(T) date.Date) []T {
	byDay := make(map[date.Date]T, len(old)+len(add))
	for _, x := range old {
		byDay[day(x)] = x
	}
	for _, x := range add {
		byDay[day(x)] = x
	}
	list := make([]T, 0, len(byDay))
	for _, x := range byDay {
		list = append(list, x)
	}
	sort.Slice(list, func(i, j int) bool { return day(list[i]).Before(day(list[j])) })
	return list
}

func barDay(b stockscanner.Bar) date.Date         { return b.Date }
func fundDay(f stockscanner.Fundamental) date.Date { return f.Date }

// normalize turns a symbol into a name usable for files and tables ("NIFTY 50" -> "NIFTY_50").
func normalize(symbol string) string {
	return strings.ReplaceAll(strings.TrimSpace(symbol), " ", "_")
}
