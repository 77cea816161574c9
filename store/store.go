// Package store persists portfolios, either as JSON files in a folder or as
// JSON documents in a SQLite table.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/adityazagade/stockscanner"
)

// ErrNotFound is returned when no portfolio has the requested id.
var ErrNotFound = errors.New("portfolio not found")

// Open returns the store of a kind ("fs" or "sqlite") rooted in a data
// folder, binding loaded portfolios to src.
func Open(kind, dir string, src stockscanner.PriceSource) (stockscanner.PortfolioStore, error) {
	switch kind {
	case "fs":
		return NewFolder(filepath.Join(dir, "portfolios"), src)
	case "sqlite":
		return NewSQLite(filepath.Join(dir, "data.db"), src)
	default:
		return nil, fmt.Errorf("unknown portfolio store %q", kind)
	}
}

// FollowingStrategy returns the stored portfolios following a strategy, by name.
func FollowingStrategy(s stockscanner.PortfolioStore, name string) ([]*stockscanner.Portfolio, error) {
	all, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	var list []*stockscanner.Portfolio
	for _, p := range all {
		if p.StrategyName() == name {
			list = append(list, p)
		}
	}
	return list, nil
}

// sortByName orders portfolios by name then id.
func sortByName(list []*stockscanner.Portfolio) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}
