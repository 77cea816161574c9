// Package renderer turns portfolios and backtest reports into markdown.
//
// Every report is a main template assembled from partials, all embedded in
// the binary. A partial is named after its main template: "portfolio_assets"
// is a partial of "portfolio".
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderPortfolio renders the Portfolio struct to a markdown string.
func RenderPortfolio(p *Portfolio) string {
	partials := map[string]string{
		"portfolio_title":     "portfolio_title.md",
		"portfolio_assets":    "portfolio_assets.md",
		"portfolio_trades":    "portfolio_trades.md",
		"portfolio_changelog": "portfolio_changelog.md",
	}
	return renderTemplate("portfolio", "portfolio.md", partials, p)
}

// BacktestRenderOptions holds configuration for rendering a backtest report.
type BacktestRenderOptions struct {
	SkipTrades bool // Do not render the trade book.
}

// RenderBacktest renders the Backtest struct to a markdown string.
func RenderBacktest(b *Backtest, opts BacktestRenderOptions) string {
	partials := map[string]string{
		"backtest_title":       "backtest_title.md",
		"backtest_performance": "backtest_performance.md",
		"portfolio_assets":     "portfolio_assets.md",
		"portfolio_trades":     "portfolio_trades.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipTrades {
		partials["portfolio_trades"] = ""
	}
	return renderTemplate("backtest", "backtest.md", partials, b)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
