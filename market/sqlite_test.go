package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite(t *testing.T) {
	checkStore(t, newTestSQLite(t))
}

func TestSQLite_Tables(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.AddBars("NIFTY 50", bar("2020-01-01", 101)))

	ok, err := s.tableExists("NIFTY_50_OHLC")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.tableExists("NIFTY_50_PE")
	require.NoError(t, err)
	assert.False(t, ok)

	fundamentals, err := s.Fundamentals("NIFTY 50")
	require.NoError(t, err)
	assert.Empty(t, fundamentals)

	symbols, err := s.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"NIFTY_50"}, symbols)
}
