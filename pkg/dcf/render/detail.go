package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/columns"
)

// detailColumns are the labelled rows of the per-company view.
var detailColumns = []struct{ label, col string }{
	{"Name", "name"},
	{"Sector", "sector"},
	{"Intrinsic value / share", "iv"},
	{"Price", "price"},
	{"Upside", "upside%"},
	{"Verdict", "verdict"},
	{"Enterprise value", "ev"},
	{"Net debt", "net_debt"},
	{"Equity value", "equity"},
	{"DCF value", "dcf"},
	{"Terminal value (PV)", "tv_pv"},
	{"Total debt", "debt"},
	{"WACC", "wacc"},
	{"Growth", "growth"},
	{"Cost of equity", "coe"},
	{"Cost of debt", "cod"},
	{"Tax rate", "tax"},
	{"Defaults applied", "defaults"},
}

// DetailRenderer prints one block per company: the valuation figures
// followed by the forecast years. Failed companies print their error.
type DetailRenderer struct{}

func NewDetailRenderer() *DetailRenderer { return &DetailRenderer{} }

func (r *DetailRenderer) Render(w io.Writer, reports []basket.Report, opts RenderOptions) error {
	first := true
	for _, rep := range reports {
		for _, o := range rep.Outcomes {
			if !first {
				fmt.Fprintln(w)
			}
			first = false
			r.renderOne(w, o, opts)
		}
	}
	return nil
}

func (r *DetailRenderer) renderOne(w io.Writer, o basket.Outcome, opts RenderOptions) {
	fmt.Fprintln(w, text.Bold.Sprint(o.Company.Ticker))
	if !o.OK() {
		msg := columns.RenderValue("error", o, opts.Format)
		if opts.Color {
			msg = colorize("error", msg, o)
		}
		fmt.Fprintln(w, msg)
		return
	}

	kv := newTable(w)
	kv.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	for _, d := range detailColumns {
		v := columns.RenderValue(d.col, o, opts.Format)
		if v == "" {
			continue
		}
		if opts.Color {
			v = colorize(d.col, v, o)
		}
		kv.AppendRow(table.Row{d.label, v})
	}
	kv.Render()

	fc := o.Result.Forecast
	if len(fc) == 0 {
		return
	}
	fmt.Fprintln(w)
	ft := newTable(w)
	hdr := table.Row{"YEAR", "FCF", "PV(FCF)"}
	nopat := fc[0].NOPAT != 0 || fc[0].EBITDA != 0
	if nopat {
		hdr = append(hdr, "EBITDA", "EBIT", "NOPAT", "PV(NOPAT)")
	}
	ft.AppendHeader(hdr)
	cfgs := make([]table.ColumnConfig, 0, len(hdr))
	for i := 2; i <= len(hdr); i++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	ft.SetColumnConfigs(cfgs)
	f := opts.Format
	for _, y := range fc {
		row := table.Row{y.Year, f.Money(y.FCF), f.Money(y.FCFPV)}
		if nopat {
			row = append(row, f.Money(y.EBITDA), f.Money(y.EBIT), f.Money(y.NOPAT), f.Money(y.NOPATPV))
		}
		ft.AppendRow(row)
	}
	ft.Render()
}
