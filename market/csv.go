package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/date"
)

// This file reads the CSV exports of the exchange: historical prices
//
//	"Date ","Open ","High ","Low ","Close ","Shares Traded ","Turnover (Rs. Cr)"
//	"01-Jan-2020","12202.15","12222.2","12165.3","12182.5","304078039","10445.68"
//
// and historical valuations
//
//	"Date","P/E","P/B","Div Yield"
//	"01-Jan-2020","28.6","3.6","1.23"
//
// Headers are matched loosely, missing values are written "-".

// columns maps a normalized header to its column index.
type columns map[string]int

func readHeader(r *csv.Reader) (columns, error) {
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	cols := make(columns, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		cols[h] = i
	}
	return cols, nil
}

// find returns the index of the first column whose header starts with one of the prefixes.
func (c columns) find(prefixes ...string) int {
	for _, p := range prefixes {
		for h, i := range c {
			if strings.HasPrefix(h, p) {
				return i
			}
		}
	}
	return -1
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	return cr
}

// number parses a cell, false when the column is absent or the value is missing.
func number(record []string, i int) (float64, bool, error) {
	if i < 0 || i >= len(record) {
		return 0, false, nil
	}
	s := strings.ReplaceAll(strings.TrimSpace(record[i]), ",", "")
	if s == "" || s == "-" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid number %q", record[i])
	}
	return v, true, nil
}

// ReadPriceCSV reads historical prices in ascending date order.
func ReadPriceCSV(r io.Reader) ([]stockscanner.Bar, error) {
	cr := newReader(r)
	cols, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	iDate, iClose := cols.find("date"), cols.find("close")
	if iDate < 0 || iClose < 0 {
		return nil, errors.New("price csv requires Date and Close columns")
	}
	iOpen, iHigh, iLow := cols.find("open"), cols.find("high"), cols.find("low")
	iVolume, iTurnover := cols.find("shares traded", "volume"), cols.find("turnover")

	var bars []stockscanner.Bar
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if iDate >= len(record) || strings.TrimSpace(record[iDate]) == "" {
			continue
		}
		on, err := date.Parse(record[iDate])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b := stockscanner.Bar{Date: on}
		var ok bool
		if b.Close, ok, err = number(record, iClose); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		} else if !ok {
			return nil, fmt.Errorf("line %d: missing close", line)
		}
		for _, f := range []struct {
			i   int
			dst *float64
		}{{iOpen, &b.Open}, {iHigh, &b.High}, {iLow, &b.Low}, {iTurnover, &b.Turnover}} {
			if *f.dst, _, err = number(record, f.i); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		volume, _, err := number(record, iVolume)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b.Volume = int64(volume)
		bars = append(bars, b)
	}
	return merge(nil, bars, barDay), nil
}

// ReadFundamentalCSV reads historical valuations in ascending date order.
// Rows without a P/E are skipped.
func ReadFundamentalCSV(r io.Reader) ([]stockscanner.Fundamental, error) {
	cr := newReader(r)
	cols, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	iDate, iPE := cols.find("date"), cols.find("p/e", "pe")
	if iDate < 0 || iPE < 0 {
		return nil, errors.New("valuation csv requires Date and P/E columns")
	}
	iPB, iDiv := cols.find("p/b", "pb"), cols.find("div")

	var rows []stockscanner.Fundamental
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if iDate >= len(record) || strings.TrimSpace(record[iDate]) == "" {
			continue
		}
		on, err := date.Parse(record[iDate])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		f := stockscanner.Fundamental{Date: on}
		var ok bool
		if f.PE, ok, err = number(record, iPE); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		} else if !ok {
			continue
		}
		if f.PB, _, err = number(record, iPB); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if f.DivYield, _, err = number(record, iDiv); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, f)
	}
	return merge(nil, rows, fundDay), nil
}

// Import reads a price export and, when not nil, a valuation export into the
// store under a symbol. It returns the number of rows read.
func Import(s Store, symbol string, prices, valuations io.Reader) (int, error) {
	bars, err := ReadPriceCSV(prices)
	if err != nil {
		return 0, fmt.Errorf("reading prices of %q: %w", symbol, err)
	}
	if err := s.AddBars(symbol, bars...); err != nil {
		return 0, err
	}
	n := len(bars)
	if valuations == nil {
		return n, nil
	}
	rows, err := ReadFundamentalCSV(valuations)
	if err != nil {
		return n, fmt.Errorf("reading valuations of %q: %w", symbol, err)
	}
	if err := s.AddFundamentals(symbol, rows...); err != nil {
		return n, err
	}
	return n + len(rows), nil
}
