package stockscanner

import "errors"

// Errors returned by the ledger, the portfolio and the strategies. They are
// wrapped with context and must be tested with errors.Is.
var (
	// ErrInsufficientQuantity is returned when selling more than a holding owns.
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	// ErrInsufficientFunds is returned when withdrawing more cash than available.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrEmptyLedger is returned by the average buy price of an empty holding.
	ErrEmptyLedger = errors.New("empty ledger")
	// ErrAssetNotFound is returned when a portfolio does not hold an asset type.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrStrategyNotFound is returned when no strategy is registered under a name.
	ErrStrategyNotFound = errors.New("strategy not found")
	// ErrPortfolioCreation wraps any failure while building an initial portfolio.
	ErrPortfolioCreation = errors.New("portfolio creation failed")
	// ErrWeightResolution is returned when a P/E value falls in no allocation bin.
	ErrWeightResolution = errors.New("weight resolution failed")
	// ErrNoData is returned when a price source has no row in the lookback window.
	ErrNoData = errors.New("no data")
)
