// Package summary derives the profitability and solvency snapshot shown next
// to a valuation. Every metric is optional: a missing line item or a zero
// denominator leaves the field nil.
package summary

import (
	"math"

	"github.com/komsit37/dcf/pkg/dcf/normalize"
	"github.com/komsit37/dcf/pkg/dcf/types"
)

// Summary is the latest-period snapshot of a company.
type Summary struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`

	MarketCap   *float64 `json:"market_cap,omitempty"`
	TrailingPE  *float64 `json:"trailing_pe,omitempty"`
	TrailingEPS *float64 `json:"trailing_eps,omitempty"`

	TotalRevenue     *float64 `json:"total_revenue,omitempty"`
	GrossProfit      *float64 `json:"gross_profit,omitempty"`
	PretaxIncome     *float64 `json:"pretax_income,omitempty"`
	EBITDA           *float64 `json:"ebitda,omitempty"`
	NetIncome        *float64 `json:"net_income,omitempty"`
	TotalAssets      *float64 `json:"total_assets,omitempty"`
	TotalLiabilities *float64 `json:"total_liabilities,omitempty"`
	EndCashPosition  *float64 `json:"end_cash_position,omitempty"`

	EBITDAMargin     *float64 `json:"ebitda_margin,omitempty"`
	PretaxMargin     *float64 `json:"pretax_margin,omitempty"`
	NetMargin        *float64 `json:"net_margin,omitempty"`
	LiabilitiesRatio *float64 `json:"liabilities_to_assets,omitempty"`
	CashCoverage     *float64 `json:"cash_to_liabilities,omitempty"`
}

// Compute builds the summary for c. It never fails.
func Compute(c types.Company) Summary {
	s := Summary{
		Ticker:      c.Ticker,
		Name:        c.Name(),
		TrailingPE:  finite(c.Profile.TrailingPE),
		TrailingEPS: finite(c.Profile.TrailingEPS),
	}
	if c.Profile.MarketCap > 0 {
		s.MarketCap = ptr(c.Profile.MarketCap)
	}

	s.TotalRevenue = latest(c, normalize.TotalRevenue)
	s.GrossProfit = latest(c, normalize.GrossProfit)
	s.PretaxIncome = latest(c, normalize.PretaxIncome)
	s.EBITDA = latest(c, normalize.EBITDA)
	s.NetIncome = latest(c, normalize.NetIncome)
	s.TotalAssets = latest(c, normalize.TotalAssets)
	s.TotalLiabilities = latest(c, normalize.TotalLiabilities)
	s.EndCashPosition = latest(c, normalize.EndCashPosition)

	s.EBITDAMargin = ratio(s.EBITDA, s.TotalRevenue)
	s.PretaxMargin = ratio(s.PretaxIncome, s.TotalRevenue)
	s.NetMargin = ratio(s.NetIncome, s.TotalRevenue)
	s.LiabilitiesRatio = ratio(s.TotalLiabilities, s.TotalAssets)
	s.CashCoverage = ratio(s.EndCashPosition, s.TotalLiabilities)
	return s
}

// InMillions returns a copy with the currency amounts rescaled to millions.
func (s Summary) InMillions() Summary {
	out := s
	for _, p := range []**float64{
		&out.MarketCap, &out.TotalRevenue, &out.GrossProfit, &out.PretaxIncome, &out.EBITDA,
		&out.NetIncome, &out.TotalAssets, &out.TotalLiabilities, &out.EndCashPosition,
	} {
		if *p != nil {
			*p = ptr(**p / 1e6)
		}
	}
	return out
}

func latest(c types.Company, f normalize.Field) *float64 {
	a := normalize.Table[f]
	series, _, ok := normalize.Resolve(c.Statement(a.Statement), a.Labels)
	if !ok {
		return nil
	}
	v, ok := series.Latest()
	if !ok {
		return nil
	}
	return finite(&v)
}

func ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	return finite(ptr(*num / *den))
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return ptr(*v)
}

func ptr(v float64) *float64 { return &v }
