package eodhd

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/adityazagade/stockscanner/date"
	"github.com/rs/zerolog"
)

// diskCache is a RoundTripper caching successful responses on disk for the
// day: the key embeds today's date so entries expire at midnight.
type diskCache struct {
	base  http.RoundTripper
	dir   string
	log   zerolog.Logger
	today func() date.Date
}

func (c *diskCache) key(req *http.Request) string {
	key := fmt.Sprintf("%s %s %s", c.today(), req.Method, req.URL.String())
	return fmt.Sprintf("eodhd-%s-%x", c.today(), sha1.Sum([]byte(key)))
}

// RoundTrip serves the cached response if any, otherwise performs the
// request and caches it when successful.
func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := c.key(req)
	if resp, err := c.get(key, req); err == nil {
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("eodhd request")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write error ignored")
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response. The body is read and restored for the caller.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}
