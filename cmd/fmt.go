package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// printMarkdown renders markdown for the terminal, or prints it as is when
// stdout is not a terminal.
func printMarkdown(md string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// printTable prints rows under a header.
func printTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.Header(cells(header)...)
	for _, row := range rows {
		table.Append(cells(row)...)
	}
	table.Render()
}

func cells(row []string) []any {
	list := make([]any, len(row))
	for i, x := range row {
		list[i] = x
	}
	return list
}
