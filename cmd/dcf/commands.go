package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/columns"
	"github.com/komsit37/dcf/pkg/dcf/filter"
	"github.com/komsit37/dcf/pkg/dcf/pipeline"
	"github.com/komsit37/dcf/pkg/dcf/render"
	"github.com/komsit37/dcf/pkg/dcf/source"
)

// viewFlags are the selection and output flags shared by value, compare and summary.
type viewFlags struct {
	filter      string
	company     string
	columns     string
	sets        string
	sort        string
	format      string
	flatten     string
	quotes      bool
	millions    bool
	pretty      bool
	noColor     bool
	maxColWidth int
}

func (v *viewFlags) bind(cmd *cobra.Command, defaultFormat string) {
	f := cmd.Flags()
	f.StringVarP(&v.filter, "filter", "f", "", "basket filter: exact list a,b; glob *x*; regex /re/; substring")
	f.StringVarP(&v.company, "company", "c", "", "company filter: [ticker:|name:|sector:]expr")
	f.StringVar(&v.columns, "columns", "", "comma separated columns")
	f.StringVar(&v.sets, "sets", "", "comma separated column sets: valuation, rates, forecast, summary")
	f.StringVarP(&v.sort, "sort", "s", "", "sort key: upside, iv, ev, equity, wacc, growth, ticker")
	f.StringVarP(&v.format, "format", "o", defaultFormat, "output format: table, detail, json, tickers")
	f.StringVar(&v.flatten, "flatten", "", "merge all baskets into one with this name")
	f.BoolVar(&v.quotes, "quotes", false, "fetch current prices from Yahoo Finance")
	f.BoolVar(&v.millions, "millions", true, "show money in millions")
	f.BoolVar(&v.pretty, "pretty", false, "indent JSON output")
	f.BoolVar(&v.noColor, "no-color", false, "disable colors")
	f.IntVar(&v.maxColWidth, "max-col-width", 0, "wrap table cells at this width (0 derives it from the terminal)")
}

// options resolves the flags against the config into pipeline options.
func (v *viewFlags) options(cmd *cobra.Command, a *app, defaultSets []string) (pipeline.ExecuteOptions, error) {
	var opts pipeline.ExecuteOptions

	bf, err := filter.Parse(v.filter)
	if err != nil {
		return opts, fmt.Errorf("filter: %w", err)
	}
	opts.Filter = bf
	if strings.TrimSpace(v.company) != "" {
		cf, err := filter.ParseCompany(v.company)
		if err != nil {
			return opts, fmt.Errorf("company: %w", err)
		}
		opts.Companies = cf
	}

	key := a.cfg.Basket.Sort
	if v.sort != "" {
		key = v.sort
	}
	if opts.Sort, err = basket.ParseSortKey(key); err != nil {
		return opts, err
	}

	sets := splitList(v.sets)
	cols := splitList(v.columns)
	if len(sets) == 0 && len(cols) == 0 {
		sets = defaultSets
	}
	if len(sets) > 0 {
		expanded, err := columns.ExpandSets(sets)
		if err != nil {
			return opts, err
		}
		cols = append(expanded, cols...)
	}
	opts.Columns = cols

	width, tty := detectTerminalWidth()
	opts.Flatten = v.flatten
	opts.Color = tty && !v.noColor && os.Getenv("NO_COLOR") == ""
	opts.PrettyJSON = v.pretty
	opts.MaxColWidth = v.maxColWidth
	if opts.MaxColWidth == 0 {
		opts.MaxColWidth = a.cfg.Render.MaxColWidth
	}
	if opts.MaxColWidth == 0 {
		opts.MaxColWidth = colWidthFor(width)
	}
	opts.Format = columns.Format{Millions: a.cfg.Render.Millions}
	if cmd.Flags().Changed("millions") {
		opts.Format.Millions = v.millions
	}
	return opts, nil
}

func (v *viewFlags) renderer(a *app) (render.Renderer, error) {
	format := v.format
	if format == "" {
		format = a.cfg.Render.Format
	}
	return render.ForFormat(format)
}

func (v *viewFlags) run(cmd *cobra.Command, a *app, path string, defaultSets []string) error {
	opts, err := v.options(cmd, a, defaultSets)
	if err != nil {
		return err
	}
	r, err := v.renderer(a)
	if err != nil {
		return err
	}
	quotes := a.cfg.Quotes.Enabled
	if cmd.Flags().Changed("quotes") {
		quotes = v.quotes
	}
	return a.runner(r, quotes, cmd.OutOrStdout()).Execute(cmd.Context(), path, opts)
}

func newValueCmd(a *app) *cobra.Command {
	v := &viewFlags{}
	cmd := &cobra.Command{
		Use:   "value <file|dir>",
		Short: "Show the full valuation of each company: figures, rates and forecast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.run(cmd, a, args[0], nil)
		},
	}
	v.bind(cmd, "detail")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	v := &viewFlags{}
	cmd := &cobra.Command{
		Use:   "compare <file|dir>",
		Short: "Value every company of each basket and rank them side by side",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.run(cmd, a, args[0], nil)
		},
	}
	v.bind(cmd, "")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	v := &viewFlags{}
	cmd := &cobra.Command{
		Use:   "summary <file|dir>",
		Short: "Show profitability and solvency figures of each company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.run(cmd, a, args[0], []string{"summary"})
		},
	}
	v.bind(cmd, "table")
	return cmd
}

func newAliasesCmd(a *app) *cobra.Command {
	var company string
	cmd := &cobra.Command{
		Use:   "aliases [file|dir]",
		Short: "List the statement labels each field is resolved from",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				render.Aliases(cmd.OutOrStdout())
				return nil
			}
			var opts pipeline.ExecuteOptions
			if company != "" {
				cf, err := filter.ParseCompany(company)
				if err != nil {
					return fmt.Errorf("company: %w", err)
				}
				opts.Companies = cf
			}
			baskets, err := a.runner(nil, false, nil).Load(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			render.Resolution(cmd.OutOrStdout(), source.Flatten("", baskets).Companies)
			return nil
		},
	}
	cmd.Flags().StringVarP(&company, "company", "c", "", "company filter: [ticker:|name:|sector:]expr")
	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
