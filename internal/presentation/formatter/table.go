package formatter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/penwyp/go-enroll-stats/internal/analyzer"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

type TableFormatter struct {
	w io.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{w: w}
}

func (f *TableFormatter) Format(report *analyzer.Report) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(f.w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	if width := util.TerminalWidth(0); width > 0 {
		tbl.SetAllowedRowLength(width)
	}

	tbl.AppendHeader(table.Row{"Scope", "File", "Available", "Total", "Ratio"})
	tbl.AppendRow(resultRow("Section", report.Section))
	tbl.AppendRow(resultRow("Overall", report.Overall))

	tbl.Render()
	return nil
}

func resultRow(scope string, r analyzer.Result) table.Row {
	if !r.Found {
		return table.Row{scope, "-", 0, 0, "-"}
	}
	return table.Row{scope, r.File, r.Available, r.Total, fmt.Sprintf("%.4f", r.Ratio)}
}
