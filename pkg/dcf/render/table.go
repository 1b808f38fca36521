package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/columns"
)

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, reports []basket.Report, opts RenderOptions) error {
	multi := len(reports) > 1
	for ri, rep := range reports {
		cols := rep.Columns

		// Basket name as a standalone line spanning full width
		if multi && strings.TrimSpace(rep.Name) != "" {
			fmt.Fprintln(w, text.Bold.Sprint(strings.ToUpper(rep.Name)))
		}

		tw := newTable(w)
		hdr := make(table.Row, len(cols))
		for i, c := range cols {
			hdr[i] = strings.ToUpper(c)
		}
		tw.AppendHeader(hdr)

		// Wrap text to MaxColWidth (default 40), no truncation
		maxWidth := opts.MaxColWidth
		if maxWidth <= 0 {
			maxWidth = 40
		}
		cfgs := make([]table.ColumnConfig, 0, len(cols))
		for i, c := range cols {
			cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
			if columns.Numeric(c) {
				cfg.Align = text.AlignRight
				cfg.AlignHeader = text.AlignRight
			}
			cfgs = append(cfgs, cfg)
		}
		if len(cfgs) > 0 {
			tw.SetColumnConfigs(cfgs)
		}

		for _, o := range rep.Outcomes {
			row := make(table.Row, len(cols))
			for i, c := range cols {
				v := columns.RenderValue(c, o, opts.Format)
				if opts.Color {
					v = colorize(c, v, o)
				}
				row[i] = v
			}
			tw.AppendRow(row)
		}

		tw.Render()
		if ri < len(reports)-1 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

// colorize marks upside and verdict green or red, and errors red.
func colorize(col, v string, o basket.Outcome) string {
	if v == "" {
		return v
	}
	switch col {
	case "upside%", "verdict":
		switch o.Verdict {
		case basket.Undervalued:
			return text.Colors{text.FgGreen}.Sprint(v)
		case basket.Overvalued:
			return text.Colors{text.FgRed}.Sprint(v)
		}
	case "error":
		return text.Colors{text.FgRed}.Sprint(v)
	}
	return v
}
