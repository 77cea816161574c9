package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/adityazagade/stockscanner"
)

// Folder stores one indented "<id>.json" file per portfolio.
type Folder struct {
	dir string
	src stockscanner.PriceSource
	mu  sync.Mutex
}

// NewFolder returns a store in dir, creating it if needed.
func NewFolder(dir string, src stockscanner.PriceSource) (*Folder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create portfolio folder %q: %w", dir, err)
	}
	return &Folder{dir: dir, src: src}, nil
}

func (f *Folder) path(id string) string { return filepath.Join(f.dir, id+".json") }

func (f *Folder) Save(p *stockscanner.Portfolio) error {
	if p.ID == "" {
		return errors.New("cannot save a portfolio without id")
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode portfolio %q: %w", p.Name, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tmp := f.path(p.ID) + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("cannot write portfolio %q: %w", p.Name, err)
	}
	return os.Rename(tmp, f.path(p.ID))
}

func (f *Folder) Load(id string) (*stockscanner.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(f.path(id))
}

func (f *Folder) load(filename string) (*stockscanner.Portfolio, error) {
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%q: %w", filepath.Base(filename), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", filename, err)
	}
	p := new(stockscanner.Portfolio)
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	p.Bind(f.src)
	return p, nil
}

func (f *Folder) LoadAll() ([]*stockscanner.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	filenames, err := filepath.Glob(filepath.Join(f.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("cannot scan folder %q: %w", f.dir, err)
	}
	list := make([]*stockscanner.Portfolio, 0, len(filenames))
	for _, name := range filenames {
		p, err := f.load(name)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	sortByName(list)
	return list, nil
}
