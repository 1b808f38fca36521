package types

// RateEstimate holds the discount-rate inputs derived for one valuation.
// All values are fractions (0.05 == 5%).
type RateEstimate struct {
	AvgGrowthRate float64 `json:"avg_growth_rate"`
	CostOfEquity  float64 `json:"cost_of_equity"`
	CostOfDebt    float64 `json:"cost_of_debt"`
	TaxRate       float64 `json:"tax_rate"`
	WACC          float64 `json:"wacc"`
	WACCFloored   bool    `json:"wacc_floored"`
	TotalDebt     float64 `json:"total_debt"`

	// Defaulted lists the named defaults that replaced a computed value.
	Defaulted []string `json:"defaulted,omitempty"`
}

// ForecastYear is one entry of the fixed five-year forecast.
type ForecastYear struct {
	Year    int     `json:"year"`
	FCF     float64 `json:"fcf"`
	FCFPV   float64 `json:"fcf_pv"`
	EBITDA  float64 `json:"ebitda,omitempty"`
	EBIT    float64 `json:"ebit,omitempty"`
	NOPAT   float64 `json:"nopat,omitempty"`
	NOPATPV float64 `json:"nopat_pv,omitempty"`
}

// ValuationResult is the final, fully validated output of a valuation.
type ValuationResult struct {
	Ticker                 string         `json:"ticker"`
	Name                   string         `json:"name"`
	Sector                 string         `json:"sector"`
	EnterpriseValue        float64        `json:"enterprise_value"`
	NetDebt                float64        `json:"net_debt"`
	EquityValue            float64        `json:"equity_value"`
	DCFValue               float64        `json:"dcf_value"`
	IntrinsicValuePerShare float64        `json:"intrinsic_value_per_share"`
	TerminalValuePV        float64        `json:"terminal_value_pv"`
	Rates                  RateEstimate   `json:"rates"`
	Forecast               []ForecastYear `json:"forecast"`
}

const million = 1e6

// InMillions returns a copy with the monetary totals rescaled to millions.
// Per-share values and rates are left untouched.
func (r ValuationResult) InMillions() ValuationResult {
	out := r
	out.EnterpriseValue /= million
	out.NetDebt /= million
	out.EquityValue /= million
	out.DCFValue /= million
	out.TerminalValuePV /= million
	out.Rates.TotalDebt /= million
	out.Forecast = make([]ForecastYear, len(r.Forecast))
	for i, y := range r.Forecast {
		y.FCF /= million
		y.FCFPV /= million
		y.EBITDA /= million
		y.EBIT /= million
		y.NOPAT /= million
		y.NOPATPV /= million
		out.Forecast[i] = y
	}
	return out
}
