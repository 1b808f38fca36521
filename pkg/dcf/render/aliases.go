package render

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/komsit37/dcf/pkg/dcf/normalize"
	"github.com/komsit37/dcf/pkg/dcf/types"
)

// Aliases prints the canonical alias table: field, statement and labels in
// preference order.
func Aliases(w io.Writer) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"FIELD", "STATEMENT", "LABELS"})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 60}})
	for _, f := range normalize.Fields() {
		a := normalize.Table[f]
		tw.AppendRow(table.Row{string(f), string(a.Statement), strings.Join(a.Labels, " | ")})
	}
	tw.Render()
}

// Resolution prints which raw label each field resolved to per company.
func Resolution(w io.Writer, companies []types.Company) {
	fields := normalize.Fields()
	tw := newTable(w)
	hdr := table.Row{"FIELD"}
	for _, c := range companies {
		hdr = append(hdr, c.Ticker)
	}
	tw.AppendHeader(hdr)
	for _, f := range fields {
		a := normalize.Table[f]
		row := table.Row{string(f)}
		for _, c := range companies {
			_, label, ok := normalize.Resolve(c.Statement(a.Statement), a.Labels)
			if !ok {
				label = "-"
			}
			row = append(row, label)
		}
		tw.AppendRow(row)
	}
	tw.Render()
}
