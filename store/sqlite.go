package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adityazagade/stockscanner"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS portfolios (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    strategy   TEXT,
    document   TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_portfolios_strategy ON portfolios(strategy);
`

// SQLite stores portfolios as JSON documents in the portfolios table.
type SQLite struct {
	db  *sql.DB
	src stockscanner.PriceSource
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string, src stockscanner.PriceSource) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.NewSQLite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // single writer
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.NewSQLite: apply schema: %w", err)
	}
	return &SQLite{db: db, src: src}, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Save(p *stockscanner.Portfolio) error {
	if p.ID == "" {
		return errors.New("store.Save: portfolio without id")
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("store.Save: encode %q: %w", p.Name, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO portfolios (id, name, strategy, document, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			strategy = excluded.strategy,
			document = excluded.document,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.StrategyName(), string(doc))
	if err != nil {
		return fmt.Errorf("store.Save: upsert %q: %w", p.Name, err)
	}
	return nil
}

func (s *SQLite) decode(doc string) (*stockscanner.Portfolio, error) {
	p := new(stockscanner.Portfolio)
	if err := json.Unmarshal([]byte(doc), p); err != nil {
		return nil, err
	}
	p.Bind(s.src)
	return p, nil
}

func (s *SQLite) Load(id string) (*stockscanner.Portfolio, error) {
	var doc string
	err := s.db.QueryRow(`SELECT document FROM portfolios WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store.Load: %q: %w", id, err)
	}
	p, err := s.decode(doc)
	if err != nil {
		return nil, fmt.Errorf("store.Load: %q: %w", id, err)
	}
	return p, nil
}

func (s *SQLite) LoadAll() ([]*stockscanner.Portfolio, error) {
	rows, err := s.db.Query(`SELECT id, document FROM portfolios`)
	if err != nil {
		return nil, fmt.Errorf("store.LoadAll: %w", err)
	}
	defer rows.Close()
	var list []*stockscanner.Portfolio
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("store.LoadAll: %w", err)
		}
		p, err := s.decode(doc)
		if err != nil {
			return nil, fmt.Errorf("store.LoadAll: %q: %w", id, err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.LoadAll: %w", err)
	}
	sortByName(list)
	return list, nil
}
