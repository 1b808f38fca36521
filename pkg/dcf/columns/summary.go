package columns

import (
	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/summary"
)

func optMoney(get func(summary.Summary) *float64) Resolver {
	return func(o basket.Outcome, f Format) string {
		v := get(o.Summary)
		if v == nil {
			return "N/A"
		}
		return f.Money(*v)
	}
}

func optPercent(get func(summary.Summary) *float64) Resolver {
	return func(o basket.Outcome, _ Format) string {
		v := get(o.Summary)
		if v == nil {
			return "N/A"
		}
		return Percent(*v)
	}
}

func registerSummary() {
	Registry["market_cap"] = optMoney(func(s summary.Summary) *float64 { return s.MarketCap })
	Registry["pe"] = func(o basket.Outcome, _ Format) string {
		if o.Summary.TrailingPE == nil {
			return "N/A"
		}
		return formatFloatComma(*o.Summary.TrailingPE, 2)
	}
	Registry["eps"] = func(o basket.Outcome, _ Format) string {
		if o.Summary.TrailingEPS == nil {
			return "N/A"
		}
		return PerShare(*o.Summary.TrailingEPS)
	}
	Registry["revenue"] = optMoney(func(s summary.Summary) *float64 { return s.TotalRevenue })
	Registry["gross_profit"] = optMoney(func(s summary.Summary) *float64 { return s.GrossProfit })
	Registry["pretax_income"] = optMoney(func(s summary.Summary) *float64 { return s.PretaxIncome })
	Registry["ebitda"] = optMoney(func(s summary.Summary) *float64 { return s.EBITDA })
	Registry["net_income"] = optMoney(func(s summary.Summary) *float64 { return s.NetIncome })
	Registry["total_assets"] = optMoney(func(s summary.Summary) *float64 { return s.TotalAssets })
	Registry["total_liabilities"] = optMoney(func(s summary.Summary) *float64 { return s.TotalLiabilities })
	Registry["end_cash"] = optMoney(func(s summary.Summary) *float64 { return s.EndCashPosition })

	Registry["ebitda_margin"] = optPercent(func(s summary.Summary) *float64 { return s.EBITDAMargin })
	Registry["pretax_margin"] = optPercent(func(s summary.Summary) *float64 { return s.PretaxMargin })
	Registry["net_margin"] = optPercent(func(s summary.Summary) *float64 { return s.NetMargin })
	Registry["liab_assets"] = optPercent(func(s summary.Summary) *float64 { return s.LiabilitiesRatio })
	Registry["cash_liab"] = optPercent(func(s summary.Summary) *float64 { return s.CashCoverage })
}
