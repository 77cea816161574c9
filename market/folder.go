package market

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// Folder is a Store persisting each series in a human readable, git friendly
// JSONL file: "<symbol>.jsonl" for prices and "<symbol>_pe.jsonl" for
// fundamentals, one day per line in date order.
//
// Series are read once and kept in memory.
type Folder struct {
	dir string

	mu     sync.Mutex
	cache  *Memory
	loaded map[string]bool
}

const (
	priceExt       = ".jsonl"
	fundamentalExt = "_pe.jsonl"
)

// NewFolder returns a store in dir, creating it if needed.
func NewFolder(dir string) (*Folder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create market folder %q: %w", dir, err)
	}
	return &Folder{dir: dir, cache: NewMemory(), loaded: make(map[string]bool)}, nil
}

func (f *Folder) path(symbol, ext string) string { return filepath.Join(f.dir, normalize(symbol)+ext) }

// load reads the files of a symbol into the cache, once.
func (f *Folder) load(symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded[symbol] {
		return nil
	}
	var bars []stockscanner.Bar
	if err := readLines(f.path(symbol, priceExt), &bars); err != nil {
		return err
	}
	var rows []stockscanner.Fundamental
	if err := readLines(f.path(symbol, fundamentalExt), &rows); err != nil {
		return err
	}
	if len(bars) > 0 {
		f.cache.AddBars(symbol, bars...)
	}
	if len(rows) > 0 {
		f.cache.AddFundamentals(symbol, rows...)
	}
	f.loaded[symbol] = true
	return nil
}

// readLines decodes a JSONL file into list. A missing file is an empty series.
func readLines[T any](filename string, list *[]T) error {
	r, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	for i := 1; scanner.Scan(); i++ {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var x T
		if err := json.Unmarshal(line, &x); err != nil {
			return fmt.Errorf("parse error %s:%v: %w", filename, i, err)
		}
		*list = append(*list, x)
	}
	return scanner.Err()
}

// writeLines encodes list into a JSONL file, replacing it atomically.
func writeLines[T any](filename string, list []T) error {
	tmp := filename + ".tmp"
	w, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("cannot open %q for writing: %w", tmp, err)
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, x := range list {
		if err := enc.Encode(x); err != nil {
			w.Close()
			return fmt.Errorf("cannot encode %q: %w", filename, err)
		}
	}
	if err := bw.Flush(); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filename)
}

func (f *Folder) AddBars(symbol string, bars ...stockscanner.Bar) error {
	if err := f.load(symbol); err != nil {
		return err
	}
	f.cache.AddBars(symbol, bars...)
	all, _ := f.cache.Bars(symbol)
	return writeLines(f.path(symbol, priceExt), all)
}

func (f *Folder) AddFundamentals(symbol string, rows ...stockscanner.Fundamental) error {
	if err := f.load(symbol); err != nil {
		return err
	}
	f.cache.AddFundamentals(symbol, rows...)
	all, _ := f.cache.Fundamentals(symbol)
	return writeLines(f.path(symbol, fundamentalExt), all)
}

func (f *Folder) Bars(symbol string) ([]stockscanner.Bar, error) {
	if err := f.load(symbol); err != nil {
		return nil, err
	}
	return f.cache.Bars(symbol)
}

func (f *Folder) Fundamentals(symbol string) ([]stockscanner.Fundamental, error) {
	if err := f.load(symbol); err != nil {
		return nil, err
	}
	return f.cache.Fundamentals(symbol)
}

func (f *Folder) BarAsOf(symbol string, on date.Date) (stockscanner.Bar, error) {
	if err := f.load(symbol); err != nil {
		return stockscanner.Bar{}, err
	}
	return f.cache.BarAsOf(symbol, on)
}

func (f *Folder) Has(symbol string) bool {
	if err := f.load(symbol); err != nil {
		return false
	}
	return f.cache.Has(symbol)
}

// Symbols lists the price files of the folder. Names are returned as stored,
// spaces replaced by underscores.
func (f *Folder) Symbols() ([]string, error) {
	filenames, err := filepath.Glob(filepath.Join(f.dir, "*"+priceExt))
	if err != nil {
		return nil, fmt.Errorf("cannot scan folder %q: %w", f.dir, err)
	}
	var symbols []string
	for _, name := range filenames {
		base := filepath.Base(name)
		if strings.HasSuffix(base, fundamentalExt) {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(base, priceExt))
	}
	sort.Strings(symbols)
	return symbols, nil
}
