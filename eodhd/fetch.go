package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/market"
)

// EOD returns the daily bars of a ticker between two days, both included.
func (c *Client) EOD(ctx context.Context, ticker string, from, to date.Date) ([]stockscanner.Bar, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-02-01&to=2024-02-13
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	addr := c.address("/eod/"+url.PathEscape(ticker), url.Values{"from": {from.String()}, "to": {to.String()}})
	var content []struct {
		Date   date.Date `json:"date"`
		Open   float64   `json:"open"`
		High   float64   `json:"high"`
		Low    float64   `json:"low"`
		Close  float64   `json:"close"`
		Volume float64   `json:"volume"`
	}
	if err := c.get(ctx, c.cached, addr, &content); err != nil {
		return nil, fmt.Errorf("eod prices of %q: %w", ticker, err)
	}
	bars := make([]stockscanner.Bar, 0, len(content))
	for _, x := range content {
		bars = append(bars, stockscanner.Bar{Date: x.Date, Open: x.Open, High: x.High, Low: x.Low, Close: x.Close, Volume: int64(x.Volume)})
	}
	return bars, nil
}

// RealTime returns today's bar of a ticker, as traded so far.
func (c *Client) RealTime(ctx context.Context, ticker string) (stockscanner.Bar, error) {
	// https://eodhd.com/api/real-time/MCD.US?api_token=demo&fmt=json
	// {"code":"MCD.US","timestamp":1707858000,"gmtoffset":0,"open":292.1,"high":293.2,
	//  "low":290.11,"close":291.5,"volume":3035500,"previousClose":292.38,"change":-0.88,"change_p":-0.301}
	//
	// Fields are "NA" when the ticker did not trade.
	var jobj any
	if err := c.get(ctx, c.live, c.address("/real-time/"+url.PathEscape(ticker), nil), &jobj); err != nil {
		return stockscanner.Bar{}, fmt.Errorf("real time price of %q: %w", ticker, err)
	}
	field := func(path string) (float64, error) {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			return 0, fmt.Errorf("real time price of %q: %q: %w", ticker, path, err)
		}
		v, ok := jval.(float64)
		if !ok {
			return 0, fmt.Errorf("real time price of %q: %q is %v: %w", ticker, path, jval, stockscanner.ErrNoData)
		}
		return v, nil
	}
	var b stockscanner.Bar
	ts, err := field("$.timestamp")
	if err != nil {
		return b, err
	}
	b.Date = date.New(time.Unix(int64(ts), 0).UTC().Date())
	for _, f := range []struct {
		path string
		dst  *float64
	}{{"$.open", &b.Open}, {"$.high", &b.High}, {"$.low", &b.Low}, {"$.close", &b.Close}} {
		if *f.dst, err = field(f.path); err != nil {
			return b, err
		}
	}
	if volume, err := field("$.volume"); err == nil {
		b.Volume = int64(volume)
	}
	return b, nil
}

// Fetch downloads the bars of a ticker between two days into the store under
// symbol and returns how many were stored.
func (c *Client) Fetch(ctx context.Context, s market.Store, symbol, ticker string, from, to date.Date) (int, error) {
	bars, err := c.EOD(ctx, ticker, from, to)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, nil
	}
	if err := s.AddBars(symbol, bars...); err != nil {
		return 0, fmt.Errorf("storing prices of %q: %w", symbol, err)
	}
	c.log.Info().Str("symbol", symbol).Str("ticker", ticker).Int("bars", len(bars)).Msg("prices fetched")
	return len(bars), nil
}

// Update fetches the bars missing since the last stored day of a symbol,
// or the last year when there is none.
func (c *Client) Update(ctx context.Context, s market.Store, symbol, ticker string) (int, error) {
	to := date.Today()
	from := to.AddYear(-1)
	if bars, err := s.Bars(symbol); err == nil && len(bars) > 0 {
		from = bars[len(bars)-1].Date.Add(1)
	}
	if from.After(to) {
		return 0, nil
	}
	return c.Fetch(ctx, s, symbol, ticker, from, to)
}

// SearchResult is a single item of the search API response.
type SearchResult struct {
	Code              string  `json:"Code"`
	Exchange          string  `json:"Exchange"`
	Name              string  `json:"Name"`
	Type              string  `json:"Type"`
	Country           string  `json:"Country"`
	Currency          string  `json:"Currency"`
	ISIN              string  `json:"ISIN"`
	PreviousClose     float64 `json:"previousClose"`
	PreviousCloseDate string  `json:"previousCloseDate"`
}

// Ticker returns the EODHD ticker of the result.
func (r SearchResult) Ticker() string { return Ticker(r.Code, r.Exchange) }

// Search searches instruments by name, code or ISIN.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	var results []SearchResult
	if err := c.get(ctx, c.cached, c.address("/search/"+url.PathEscape(term), nil), &results); err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	return results, nil
}
