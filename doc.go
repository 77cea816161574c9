// Package stockscanner tracks the ownership of financial instruments over
// time and the portfolios built from them.
//
// A Holding is the ledger of the lots bought of one instrument, consumed
// oldest first when selling. An Asset groups the holdings of one asset class
// (equity, debt, gold or cash) and keeps a trade book. A Portfolio holds at
// most one Asset per class, computes their weights and rebalances them toward
// target weights, optionally driven by a bound Strategy.
//
// Market data is only reached through the PriceSource interface, so that the
// same ledger can be valued from memory, files, SQLite or a remote provider.
// Strategies and the backtest engine replaying them live in the strategy and
// backtest packages.
package stockscanner
