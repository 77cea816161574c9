package market

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
	_ "modernc.org/sqlite"
)

// SQLite is a Store keeping each symbol in two tables, "<SYMBOL>_OHLC" for
// prices and "<SYMBOL>_PE" for fundamentals, dates stored as ISO text.
type SQLite struct {
	db *sql.DB
}

const (
	ohlcSchema = `CREATE TABLE IF NOT EXISTS %s (
    Date          TEXT PRIMARY KEY,
    Open          REAL,
    High          REAL,
    Low           REAL,
    Close         REAL NOT NULL,
    Shares_Traded REAL,
    Turnover      REAL
)`
	peSchema = `CREATE TABLE IF NOT EXISTS %s (
    Date      TEXT PRIMARY KEY,
    P_E       REAL NOT NULL,
    P_B       REAL,
    Div_Yield REAL
)`
)

// NewSQLite opens (or creates) the database at path. Use ":memory:" for a
// transient database.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("market.NewSQLite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // single writer
	db.SetMaxIdleConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("market.NewSQLite: ping %q: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

func ohlcTable(symbol string) string { return strings.ToUpper(normalize(symbol)) + "_OHLC" }
func peTable(symbol string) string   { return strings.ToUpper(normalize(symbol)) + "_PE" }

// quote quotes an identifier.
func quote(name string) string { return `"` + strings.ReplaceAll(name, `"`, `""`) + `"` }

func (s *SQLite) tableExists(name string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("market.SQLite: lookup table %q: %w", name, err)
	}
	return n > 0, nil
}

func (s *SQLite) AddBars(symbol string, bars ...stockscanner.Bar) error {
	table := quote(ohlcTable(symbol))
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("market.SQLite.AddBars: begin tx: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(fmt.Sprintf(ohlcSchema, table)); err != nil {
		return fmt.Errorf("market.SQLite.AddBars: create %s: %w", table, err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO ` + table + ` VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("market.SQLite.AddBars: prepare: %w", err)
	}
	defer stmt.Close()
	for _, b := range bars {
		if _, err := stmt.Exec(b.Date.String(), b.Open, b.High, b.Low, b.Close, float64(b.Volume), b.Turnover); err != nil {
			return fmt.Errorf("market.SQLite.AddBars: insert %s: %w", b.Date, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) AddFundamentals(symbol string, rows ...stockscanner.Fundamental) error {
	table := quote(peTable(symbol))
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("market.SQLite.AddFundamentals: begin tx: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(fmt.Sprintf(peSchema, table)); err != nil {
		return fmt.Errorf("market.SQLite.AddFundamentals: create %s: %w", table, err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO ` + table + ` VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("market.SQLite.AddFundamentals: prepare: %w", err)
	}
	defer stmt.Close()
	for _, f := range rows {
		if _, err := stmt.Exec(f.Date.String(), f.PE, f.PB, f.DivYield); err != nil {
			return fmt.Errorf("market.SQLite.AddFundamentals: insert %s: %w", f.Date, err)
		}
	}
	return tx.Commit()
}

// queryBars reads bars from the OHLC table of symbol, where filters the rows.
func (s *SQLite) queryBars(symbol, where string, args ...any) ([]stockscanner.Bar, error) {
	table := ohlcTable(symbol)
	ok, err := s.tableExists(table)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("unknown symbol %q: %w", symbol, stockscanner.ErrNoData)
	}
	rows, err := s.db.Query(`SELECT Date, Open, High, Low, Close, Shares_Traded, Turnover FROM `+quote(table)+` `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("market.SQLite: query %s: %w", table, err)
	}
	defer rows.Close()

	var bars []stockscanner.Bar
	for rows.Next() {
		var (
			day                          string
			open, high, low, vol, turnov sql.NullFloat64
			b                            stockscanner.Bar
		)
		if err := rows.Scan(&day, &open, &high, &low, &b.Close, &vol, &turnov); err != nil {
			return nil, fmt.Errorf("market.SQLite: scan %s: %w", table, err)
		}
		if b.Date, err = date.Parse(day); err != nil {
			return nil, fmt.Errorf("market.SQLite: %s: %w", table, err)
		}
		b.Open, b.High, b.Low, b.Turnover = open.Float64, high.Float64, low.Float64, turnov.Float64
		b.Volume = int64(vol.Float64)
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *SQLite) Bars(symbol string) ([]stockscanner.Bar, error) {
	return s.queryBars(symbol, `ORDER BY Date`)
}

func (s *SQLite) BarAsOf(symbol string, on date.Date) (stockscanner.Bar, error) {
	bars, err := s.queryBars(symbol, `WHERE Date BETWEEN ? AND ? ORDER BY Date`, on.Add(-stockscanner.Lookback).String(), on.String())
	if err != nil {
		return stockscanner.Bar{}, err
	}
	return stockscanner.BarAsOf(bars, symbol, on)
}

func (s *SQLite) Fundamentals(symbol string) ([]stockscanner.Fundamental, error) {
	table := peTable(symbol)
	ok, err := s.tableExists(table)
	if err != nil || !ok {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT Date, P_E, P_B, Div_Yield FROM ` + quote(table) + ` ORDER BY Date`)
	if err != nil {
		return nil, fmt.Errorf("market.SQLite: query %s: %w", table, err)
	}
	defer rows.Close()

	var list []stockscanner.Fundamental
	for rows.Next() {
		var (
			day     string
			pb, div sql.NullFloat64
			f       stockscanner.Fundamental
		)
		if err := rows.Scan(&day, &f.PE, &pb, &div); err != nil {
			return nil, fmt.Errorf("market.SQLite: scan %s: %w", table, err)
		}
		if f.Date, err = date.Parse(day); err != nil {
			return nil, fmt.Errorf("market.SQLite: %s: %w", table, err)
		}
		f.PB, f.DivYield = pb.Float64, div.Float64
		list = append(list, f)
	}
	return list, rows.Err()
}

func (s *SQLite) Has(symbol string) bool {
	ok, err := s.tableExists(ohlcTable(symbol))
	return err == nil && ok
}

// Symbols returns the table names of the price series without their suffix.
func (s *SQLite) Symbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name LIKE '%\_OHLC' ESCAPE '\' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("market.SQLite.Symbols: %w", err)
	}
	defer rows.Close()
	var symbols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("market.SQLite.Symbols: %w", err)
		}
		symbols = append(symbols, strings.TrimSuffix(name, "_OHLC"))
	}
	return symbols, rows.Err()
}
