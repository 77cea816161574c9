package renderer

import (
	"io"
	"strings"
	"testing"
	"text/template"

	"github.com/adityazagade/stockscanner"
	"github.com/adityazagade/stockscanner/backtest"
	"github.com/adityazagade/stockscanner/date"
	"github.com/adityazagade/stockscanner/market"
	"github.com/adityazagade/stockscanner/strategy"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const benchmark = "NIFTY 50"

var start = date.New(2020, 1, 1)

// document is the structure of a rendered markdown.
type document struct {
	headings []string
	tables   [][][]string // rows of cells, header first
	items    []string
}

// parse parses a markdown the way a GFM renderer would.
func parse(t *testing.T, md string) document {
	t.Helper()
	src := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))
	var doc document
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			doc.headings = append(doc.headings, plain(n, src))
			return ast.WalkSkipChildren, nil
		case *east.Table:
			var rows [][]string
			for r := n.FirstChild(); r != nil; r = r.NextSibling() {
				var cells []string
				for c := r.FirstChild(); c != nil; c = c.NextSibling() {
					cells = append(cells, plain(c, src))
				}
				rows = append(rows, cells)
			}
			doc.tables = append(doc.tables, rows)
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			doc.items = append(doc.items, plain(n, src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return doc
}

// plain returns the text content of a node.
func plain(n ast.Node, src []byte) string {
	var b strings.Builder
	var visit func(ast.Node)
	visit = func(n ast.Node) {
		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(src))
			return
		case *ast.String:
			b.Write(n.Value)
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			visit(c)
		}
	}
	visit(n)
	return strings.TrimSpace(b.String())
}

func newMarket(t *testing.T) *market.Memory {
	t.Helper()
	m := market.NewMemory()
	for i := 0; i < 91; i++ {
		require.NoError(t, m.AddBars(benchmark, stockscanner.Bar{Date: start.Add(i), Open: 100, High: 100, Low: 100, Close: 100}))
	}
	return m
}

func inr(v float64) string { return stockscanner.M(v, "INR").String() }

func TestTemplatesParse(t *testing.T) {
	files, err := templates.ReadDir(".")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		content, err := templates.ReadFile(f.Name())
		require.NoError(t, err)
		_, err = template.New(f.Name()).Parse(string(content))
		assert.NoError(t, err, f.Name())
	}
}

func TestPortfolioMarkdown(t *testing.T) {
	m := newMarket(t)
	p, err := stockscanner.Build(m, stockscanner.Blueprint{
		Name:        "Retirement",
		Description: "Long term savings.",
		Capital:     10000,
		Weights:     stockscanner.Weights{stockscanner.Equity: 0.6, stockscanner.Debt: 0.4},
		Equities:    []string{benchmark},
		Debts:       []string{stockscanner.SavingsAccount},
		On:          start,
		Strict:      true,
	})
	require.NoError(t, err)
	p.Apply(strategy.BuyAndHold{})
	p.Log("created")

	md, err := PortfolioMarkdown(p, start.Add(5))
	require.NoError(t, err)
	doc := parse(t, md)

	assert.Equal(t, []string{"Retirement", "Assets", "equity", "debt", "Trades", "Change Log"}, doc.headings)
	assert.Contains(t, md, "Long term savings.")
	assert.Equal(t, []string{"created"}, doc.items)

	require.Len(t, doc.tables, 5)
	summary := doc.tables[0]
	assert.Equal(t, []string{"Portfolio", "2020-01-06"}, summary[0])
	assert.Equal(t, []string{"Strategy", "BuyAndHold"}, summary[1])
	assert.Equal(t, []string{"Value", inr(10000)}, summary[2])
	assert.Equal(t, []string{"Gain", "-"}, summary[4])

	assets := doc.tables[1]
	require.Len(t, assets, 4, "header, equity, debt and cash")
	assert.Equal(t, []string{"equity", "60.00%", inr(6000), inr(6000)}, assets[1])
	assert.Equal(t, []string{"debt", "40.00%", inr(4000), inr(4000)}, assets[2])
	assert.Equal(t, "cash", assets[3][0])

	equity := doc.tables[2]
	assert.Equal(t, []string{benchmark, "60", inr(100), inr(6000)}, equity[1])

	trades := doc.tables[4]
	require.Len(t, trades, 3)
	assert.Equal(t, []string{"2020-01-01", "buy", benchmark, "60", inr(100), inr(6000)}, trades[1])
}

func TestPortfolioMarkdown_TradesUntilDay(t *testing.T) {
	m := newMarket(t)
	p, err := stockscanner.Build(m, stockscanner.Blueprint{
		Name: "kids", Capital: 1000, Weights: stockscanner.Weights{stockscanner.Equity: 1},
		Equities: []string{benchmark}, On: start, Strict: true,
	})
	require.NoError(t, err)
	require.NoError(t, p.AddEquitiesByAmount(stockscanner.M(500, "INR"), start.Add(10)))

	v, err := NewPortfolio(p, start.Add(5))
	require.NoError(t, err)
	assert.Len(t, v.Trades, 1, "later trades are left out")

	doc := parse(t, RenderPortfolio(v))
	assert.NotContains(t, doc.headings, "Change Log")
	assert.Equal(t, []string{"Strategy", "-"}, doc.tables[0][1])
}

func runSIP(t *testing.T) *backtest.Report {
	t.Helper()
	sip, err := strategy.NewSIP(date.New(2020, 1, 15), 5000, date.Monthly)
	require.NoError(t, err)
	engine := backtest.New(newMarket(t), strategy.NewRegistry(sip), zerolog.New(io.Discard))
	report, err := engine.RunNamed("SIP", backtest.Request{Start: date.New(2020, 1, 15), Benchmark: benchmark, Capital: 100000})
	require.NoError(t, err)
	return report
}

func TestBacktestMarkdown(t *testing.T) {
	md, err := BacktestMarkdown(runSIP(t), BacktestRenderOptions{})
	require.NoError(t, err)
	doc := parse(t, md)

	assert.Equal(t, []string{"SIP on NIFTY 50", "Performance", "Assets", "equity", "Trades"}, doc.headings)
	assert.Contains(t, md, "Backtest from 2020-01-15 to 2020-03-31, 77 days.")

	perf := map[string]string{}
	for _, row := range doc.tables[0][1:] {
		perf[row[0]] = row[1]
	}
	assert.Equal(t, inr(15000), perf["End Value"])
	assert.Equal(t, inr(15000), perf["Contributed"])
	assert.Equal(t, "-", perf["Total Return"])
	assert.Equal(t, "0.00%", perf["Max Drawdown"])
	assert.Equal(t, "3", perf["Rebalances"])

	trades := doc.tables[len(doc.tables)-1]
	assert.Len(t, trades, 4, "header and a trade a month")
}

func TestBacktestMarkdown_SkipTrades(t *testing.T) {
	md, err := BacktestMarkdown(runSIP(t), BacktestRenderOptions{SkipTrades: true})
	require.NoError(t, err)
	assert.NotContains(t, parse(t, md).headings, "Trades")
}

func TestBacktestMarkdown_Empty(t *testing.T) {
	p := stockscanner.NewPortfolio("empty", "INR", market.NewMemory())
	md, err := BacktestMarkdown(&backtest.Report{Portfolio: p, Strategy: "SIP", Benchmark: benchmark}, BacktestRenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"SIP on NIFTY 50", "Performance"}, parse(t, md).headings)
}
