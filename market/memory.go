package market

import (
	"fmt"
	"sort"
	"sync"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// Memory is a Store holding every series in memory.
type Memory struct {
	mu           sync.RWMutex
	bars         map[string][]stockscanner.Bar
	fundamentals map[string][]stockscanner.Fundamental
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		bars:         make(map[string][]stockscanner.Bar),
		fundamentals: make(map[string][]stockscanner.Fundamental),
	}
}

func (m *Memory) AddBars(symbol string, bars ...stockscanner.Bar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bars[symbol] = merge(m.bars[symbol], bars, barDay)
	return nil
}

func (m *Memory) AddFundamentals(symbol string, rows ...stockscanner.Fundamental) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fundamentals[symbol] = merge(m.fundamentals[symbol], rows, fundDay)
	return nil
}

// Bars returns a copy of the price series of a symbol.
func (m *Memory) Bars(symbol string) ([]stockscanner.Bar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bars, ok := m.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %q: %w", symbol, stockscanner.ErrNoData)
	}
	return append([]stockscanner.Bar(nil), bars...), nil
}

// Fundamentals returns a copy of the fundamentals of a symbol, empty if there is none.
func (m *Memory) Fundamentals(symbol string) ([]stockscanner.Fundamental, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]stockscanner.Fundamental(nil), m.fundamentals[symbol]...), nil
}

func (m *Memory) BarAsOf(symbol string, on date.Date) (stockscanner.Bar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return stockscanner.BarAsOf(m.bars[symbol], symbol, on)
}

func (m *Memory) Has(symbol string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bars[symbol]) > 0
}

func (m *Memory) Symbols() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	symbols := make([]string, 0, len(m.bars))
	for s := range m.bars {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols, nil
}
