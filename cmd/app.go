// Package cmd implements the scanner command line.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/config"
	"github.com/adityazagade/stockscanner/eodhd"
	"github.com/adityazagade/stockscanner/logger"
	"github.com/adityazagade/stockscanner/market"
	"github.com/adityazagade/stockscanner/store"
	"github.com/adityazagade/stockscanner/strategy"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "config.yaml", "Path to the YAML configuration file")
var verbose = flag.Bool("v", false, "Log at debug level")

// loadConfig reads the configuration file. A missing default file is not an
// error, the defaults and the environment are used instead.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if errors.Is(err, fs.ErrNotExist) && *configFile == "config.yaml" {
		return config.Default(), nil
	}
	return cfg, err
}

// env is what the commands work with, opened from the configuration.
type env struct {
	cfg        *config.Config
	log        zerolog.Logger
	market     market.Store
	portfolios stockscanner.PortfolioStore
	registry   *strategy.Registry
}

// openEnv loads the configuration and opens the stores it names.
func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	lc := logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}
	if *verbose {
		lc.Level = "debug"
	}
	e := &env{cfg: cfg, log: logger.New(lc)}

	if e.registry, err = strategy.FromConfig(cfg); err != nil {
		return nil, fmt.Errorf("strategies: %w", err)
	}
	if e.market, err = market.Open(cfg.DB, cfg.DataDir); err != nil {
		return nil, fmt.Errorf("opening market data: %w", err)
	}
	if e.portfolios, err = store.Open(cfg.DB, cfg.DataDir, e.market); err != nil {
		closeQuietly(e.market)
		return nil, fmt.Errorf("opening portfolios: %w", err)
	}
	e.log.Debug().Str("db", cfg.DB).Str("data_dir", cfg.DataDir).Int("strategies", len(e.registry.All())).Msg("environment opened")
	return e, nil
}

// Close releases the stores.
func (e *env) Close() {
	closeQuietly(e.portfolios)
	closeQuietly(e.market)
}

// eodhd returns a client for the configured API key.
func (e *env) eodhd() (*eodhd.Client, error) {
	if e.cfg.EODHD.APIKey == "" {
		return nil, errors.New("EODHD API key is not set, use the eodhd.api_key configuration or the EODHD_API_KEY environment variable")
	}
	return eodhd.New(eodhd.Config{
		APIKey:   e.cfg.EODHD.APIKey,
		CacheDir: filepath.Join(e.cfg.DataDir, "eodhd"),
	}, e.log), nil
}

func closeQuietly(x any) {
	if c, ok := x.(io.Closer); ok {
		c.Close()
	}
}

// fail prints an error on stderr.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error "+format+"\n", args...)
}
