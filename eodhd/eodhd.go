// Package eodhd fetches end of day prices from the EOD Historical Data API
// (https://eodhd.com).
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/logger"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://eodhd.com/api"
	// The free plan allows 20 calls a day, paid plans 1000 a minute.
	defaultRatePerSec = 10
)

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string // default https://eodhd.com/api
	// CacheDir holds the daily response cache, no cache when empty.
	CacheDir   string
	RatePerSec float64
}

// Client is a rate limited EODHD API client.
type Client struct {
	apiKey  string
	base    string
	cached  *http.Client // end of day data, cached for the day
	live    *http.Client // real time data
	limiter *rate.Limiter
	log     zerolog.Logger
}

// New returns a client.
func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = defaultRatePerSec
	}
	log = logger.Component(log, "eodhd")
	c := &Client{
		apiKey:  cfg.APIKey,
		base:    cfg.BaseURL,
		live:    &http.Client{Timeout: 10 * time.Second},
		cached:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		log:     log,
	}
	if cfg.CacheDir != "" {
		c.cached.Transport = &diskCache{base: http.DefaultTransport, dir: cfg.CacheDir, log: log, today: date.Today}
	}
	return c
}

// Ticker returns the EODHD ticker of a code on an exchange ("NSEI", "INDX" -> "NSEI.INDX").
func Ticker(code, exchange string) string { return code + "." + exchange }

// address returns the URL of an API path with the token and the json format.
func (c *Client) address(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_token", c.apiKey)
	query.Set("fmt", "json")
	return c.base + path + "?" + query.Encode()
}

// get performs a rate limited GET and decodes the JSON response into data.
func (c *Client) get(ctx context.Context, client *http.Client, addr string, data any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("cannot http GET %v: %v: %s", req.URL.Path, resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		return fmt.Errorf("decode %v: %w", req.URL.Path, err)
	}
	return nil
}
