// Package config loads the scanner configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/adityazagade/stockscanner/date"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete scanner configuration.
type Config struct {
	DB           string           `yaml:"db"`       // fs | sqlite
	DataDir      string           `yaml:"data_dir"` // folder of the fs store, or of the sqlite file
	Currency     string           `yaml:"currency"`
	InterestRate float64          `yaml:"interest_rate"` // annual savings account rate, in percent
	Log          LogConfig        `yaml:"log"`
	Backtest     BacktestConfig   `yaml:"backtest"`
	Strategies   StrategiesConfig `yaml:"strategies"`
	Allocation   AllocationConfig `yaml:"allocation"`
	Watch        WatchConfig      `yaml:"watch"`
	EODHD        EODHDConfig      `yaml:"eodhd"`
}

// LogConfig controls the logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Pretty bool   `yaml:"pretty"` // console output instead of JSON
}

// BacktestConfig is the default backtest run.
type BacktestConfig struct {
	StrategyName string    `yaml:"strategy_name"`
	StartDate    date.Date `yaml:"start_date"`
	Capital      float64   `yaml:"capital"`
	Benchmark    string    `yaml:"benchmark"`
}

// ThresholdConfig configures strategies triggered by a relative change.
type ThresholdConfig struct {
	ChangeThreshold float64 `yaml:"change_threshold"` // in percent
}

// SIPConfig configures the systematic investment plan.
type SIPConfig struct {
	StartDate date.Date `yaml:"start_date"`
	Amount    float64   `yaml:"amount"`
	Frequency string    `yaml:"frequency"` // daily | weekly | monthly
}

// StrategiesConfig enables strategies, a nil section leaves the strategy out.
type StrategiesConfig struct {
	MarketMovementBasedAllocation *ThresholdConfig `yaml:"MarketMovementBasedAllocation"`
	PEBasedAllocation             *ThresholdConfig `yaml:"PEBasedAllocation"`
	SIP                           *SIPConfig       `yaml:"SIP"`
	BuyAndHold                    *struct{}        `yaml:"BuyAndHold"`
}

// AllocationConfig shapes the P/E allocation curve.
type AllocationConfig struct {
	High  float64 `yaml:"high"`  // equity weight at the lowest P/E
	Low   float64 `yaml:"low"`   // equity weight at the highest P/E
	Years int     `yaml:"years"` // trailing window
}

// WatchConfig controls the live watcher.
type WatchConfig struct {
	Schedule  string `yaml:"schedule"` // cron expression
	Benchmark string `yaml:"benchmark"`
	Ticker    string `yaml:"ticker"` // EODHD ticker refreshing the benchmark, optional
}

// EODHDConfig holds the EODHD API credentials.
type EODHDConfig struct {
	APIKey   string `yaml:"api_key"`
	Exchange string `yaml:"exchange"`
}

// Load reads the configuration from a YAML file and the .env file if any.
// Environment variables override the file values.
func Load(path string) (*Config, error) {
	// a missing .env is not an error
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML configuration, then applies the environment
// overrides and the defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used without a configuration file.
func Default() *Config {
	var cfg Config
	_ = applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	return &cfg
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("STOCKSCANNER_DB"); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv("STOCKSCANNER_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("STOCKSCANNER_INTEREST_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid STOCKSCANNER_INTEREST_RATE %q: %w", v, err)
		}
		cfg.InterestRate = rate
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		cfg.EODHD.APIKey = v
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.DB == "" {
		cfg.DB = "fs"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Backtest.Capital <= 0 {
		cfg.Backtest.Capital = 100000
	}
	if cfg.Backtest.Benchmark == "" {
		cfg.Backtest.Benchmark = "NIFTY 50"
	}
	if cfg.Allocation.High == 0 && cfg.Allocation.Low == 0 {
		cfg.Allocation.High, cfg.Allocation.Low = 0.80, 0.50
	}
	if cfg.Allocation.Years <= 0 {
		cfg.Allocation.Years = 5
	}
	if cfg.Watch.Schedule == "" {
		cfg.Watch.Schedule = "0 18 * * 1-5" // after the NSE close on trading days
	}
	if cfg.Watch.Benchmark == "" {
		cfg.Watch.Benchmark = cfg.Backtest.Benchmark
	}
	if cfg.EODHD.Exchange == "" {
		cfg.EODHD.Exchange = "NSE"
	}
	if s := cfg.Strategies.SIP; s != nil && s.Frequency == "" {
		s.Frequency = "monthly"
	}
}

func (cfg *Config) validate() error {
	switch cfg.DB {
	case "fs", "sqlite":
	default:
		return fmt.Errorf("unknown db %q, want fs or sqlite", cfg.DB)
	}
	if cfg.Allocation.High < cfg.Allocation.Low {
		return fmt.Errorf("allocation high %v is below low %v", cfg.Allocation.High, cfg.Allocation.Low)
	}
	return nil
}
