package pipeline

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/columns"
	"github.com/komsit37/dcf/pkg/dcf/enrich"
	"github.com/komsit37/dcf/pkg/dcf/filter"
	"github.com/komsit37/dcf/pkg/dcf/render"
	"github.com/komsit37/dcf/pkg/dcf/source"
	"github.com/komsit37/dcf/pkg/dcf/types"
)

type Runner struct {
	Source   source.Source
	Basket   basket.Runner
	Renderer render.Renderer
	Writer   io.Writer
}

type ExecuteOptions struct {
	Columns   []string
	Filter    filter.Filter        // basket names
	Companies filter.CompanyFilter // companies within each basket
	Sort      basket.SortKey
	// Flatten merges all baskets into one named Flatten before valuation.
	Flatten string

	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	Format      columns.Format
}

func (r *Runner) Execute(ctx context.Context, spec any, opts ExecuteOptions) error {
	reports, err := r.Value(ctx, spec, opts)
	if err != nil {
		return err
	}
	return r.Renderer.Render(r.Writer, reports, render.RenderOptions{
		Columns:     opts.Columns,
		Color:       opts.Color,
		PrettyJSON:  opts.PrettyJSON,
		MaxColWidth: opts.MaxColWidth,
		Format:      opts.Format,
	})
}

// Load reads the baskets at spec and applies the basket and company
// filters and the optional flatten.
func (r *Runner) Load(ctx context.Context, spec any, opts ExecuteOptions) ([]types.Basket, error) {
	lists, err := r.Source.Load(ctx, spec)
	if err != nil {
		return nil, err
	}

	// Apply filter by basket name
	var filt filter.Filter = filter.Always(true)
	if opts.Filter != nil {
		filt = opts.Filter
	}
	filtered := make([]types.Basket, 0, len(lists))
	for _, l := range lists {
		if !filt.Match(l.Name) {
			continue
		}
		if opts.Companies != nil {
			l.Companies = selectCompanies(l.Companies, opts.Companies)
		}
		filtered = append(filtered, l)
	}
	lists = filtered

	if opts.Flatten != "" && len(lists) > 0 {
		lists = []types.Basket{source.Flatten(opts.Flatten, lists)}
	}
	return lists, nil
}

// Value loads and values every basket, ranks the outcomes and computes the
// columns of each report.
func (r *Runner) Value(ctx context.Context, spec any, opts ExecuteOptions) ([]basket.Report, error) {
	lists, err := r.Load(ctx, spec, opts)
	if err != nil {
		return nil, err
	}
	key := opts.Sort
	if key == "" {
		key = basket.ByUpside
	}

	reports := make([]basket.Report, 0, len(lists))
	for _, l := range lists {
		br := r.Basket
		br.Prices = withFieldPrices(br.Prices, l.Companies)
		if br.Log != nil {
			br.Log = br.Log.With(zap.String("basket", l.Name))
		}
		outcomes, err := br.Run(ctx, l.Companies)
		if err != nil {
			return nil, err
		}
		basket.Sort(outcomes, key)

		// Compute columns per basket, honoring explicit and overrides
		var cols []string
		if len(opts.Columns) > 0 {
			cols = columns.Compute(opts.Columns, outcomes)
		} else {
			cols = columns.Compute(l.Columns, outcomes)
		}
		reports = append(reports, basket.Report{Name: l.Name, Columns: cols, Outcomes: outcomes})
	}
	return reports, nil
}

func selectCompanies(in []types.Company, f filter.CompanyFilter) []types.Company {
	out := make([]types.Company, 0, len(in))
	for _, c := range in {
		if f.MatchCompany(c) {
			out = append(out, c)
		}
	}
	return out
}

// withFieldPrices falls back to "price" fields of the companies when the
// live service has no quote.
func withFieldPrices(live enrich.PriceService, companies []types.Company) enrich.PriceService {
	static := enrich.FromFields(companies)
	switch {
	case len(static) == 0:
		return live
	case live == nil:
		return static
	}
	return enrich.Fallback{live, static}
}
