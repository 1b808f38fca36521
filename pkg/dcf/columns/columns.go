package columns

import (
	"errors"
	"fmt"
	"sort"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/types"
	"github.com/komsit37/dcf/pkg/dcf/valuation"
)

// Format controls how resolvers print numbers.
type Format struct {
	// Millions prints currency totals as "$ X.XX mil".
	Millions bool
}

// Resolver converts an outcome into a string value for a given column.
type Resolver func(o basket.Outcome, f Format) string

// Registry maps column keys to resolvers.
var Registry = map[string]Resolver{}

// valued wraps a resolver that needs a successful valuation.
func valued(get func(types.ValuationResult, Format) string) Resolver {
	return func(o basket.Outcome, f Format) string {
		if !o.OK() {
			return ""
		}
		return get(o.Result, f)
	}
}

func money(get func(types.ValuationResult) float64) Resolver {
	return valued(func(r types.ValuationResult, f Format) string { return f.Money(get(r)) })
}

func rate(get func(types.RateEstimate) float64) Resolver {
	return valued(func(r types.ValuationResult, _ Format) string { return Percent(get(r.Rates)) })
}

func init() {
	Registry["ticker"] = func(o basket.Outcome, _ Format) string { return o.Company.Ticker }
	// name: company file name, else the quote name
	Registry["name"] = func(o basket.Outcome, _ Format) string {
		if o.Company.Profile.ShortName == "" && o.Quote != nil && o.Quote.Name != "" {
			return o.Quote.Name
		}
		return o.Company.Name()
	}
	Registry["sector"] = func(o basket.Outcome, _ Format) string { return o.Company.Profile.Sector }
	Registry["price"] = func(o basket.Outcome, _ Format) string {
		if o.Quote == nil {
			return ""
		}
		return PerShare(o.Quote.Price)
	}
	Registry["iv"] = valued(func(r types.ValuationResult, _ Format) string { return PerShare(r.IntrinsicValuePerShare) })
	Registry["upside%"] = func(o basket.Outcome, _ Format) string {
		if o.Upside == nil {
			return ""
		}
		return fmt.Sprintf("%+.1f%%", *o.Upside)
	}
	Registry["verdict"] = func(o basket.Outcome, _ Format) string { return string(o.Verdict) }

	Registry["ev"] = money(func(r types.ValuationResult) float64 { return r.EnterpriseValue })
	Registry["net_debt"] = money(func(r types.ValuationResult) float64 { return r.NetDebt })
	Registry["equity"] = money(func(r types.ValuationResult) float64 { return r.EquityValue })
	Registry["dcf"] = money(func(r types.ValuationResult) float64 { return r.DCFValue })
	Registry["tv_pv"] = money(func(r types.ValuationResult) float64 { return r.TerminalValuePV })
	Registry["debt"] = money(func(r types.ValuationResult) float64 { return r.Rates.TotalDebt })

	Registry["wacc"] = valued(func(r types.ValuationResult, _ Format) string {
		s := Percent(r.Rates.WACC)
		if r.Rates.WACCFloored {
			s += "*"
		}
		return s
	})
	Registry["growth"] = rate(func(r types.RateEstimate) float64 { return r.AvgGrowthRate })
	Registry["coe"] = rate(func(r types.RateEstimate) float64 { return r.CostOfEquity })
	Registry["cod"] = rate(func(r types.RateEstimate) float64 { return r.CostOfDebt })
	Registry["tax"] = rate(func(r types.RateEstimate) float64 { return r.TaxRate })
	Registry["defaults"] = valued(func(r types.ValuationResult, _ Format) string { return joinComma(r.Rates.Defaulted) })

	// error: kind and message of a failed valuation
	Registry["error"] = func(o basket.Outcome, _ Format) string {
		if o.OK() {
			return ""
		}
		var verr *valuation.Error
		if errors.As(o.Err, &verr) {
			return verr.Msg
		}
		return o.Err.Error()
	}

	registerSummary()
}

// Compute determines final column order from explicit list or the default
// valuation set followed by extra company fields, sorted.
func Compute(explicit []string, outcomes []basket.Outcome) []string {
	if len(explicit) > 0 {
		seen := map[string]struct{}{}
		out := make([]string, 0, len(explicit))
		for _, k := range explicit {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
		return out
	}

	keys := append([]string(nil), Sets["valuation"]...)
	set := map[string]struct{}{}
	for _, o := range outcomes {
		for k := range o.Company.Fields {
			if _, builtin := Registry[k]; !builtin {
				set[k] = struct{}{}
			}
		}
	}
	rest := make([]string, 0, len(set))
	for k := range set {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// RenderValue calls the resolver for the given column.
func RenderValue(col string, o basket.Outcome, f Format) string {
	if r, ok := Registry[col]; ok {
		return r(o, f)
	}
	// fallback to raw field string
	if v, ok := o.Company.Fields[col]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// Numeric reports whether a column holds right-aligned numbers.
func Numeric(col string) bool {
	switch col {
	case "ticker", "name", "sector", "verdict", "error", "defaults":
		return false
	}
	_, ok := Registry[col]
	return ok
}
