package valuation

// policy is a named default applied when a computed value fails its validity check.
type policy struct {
	name     string
	valid    func(float64) bool
	fallback func(Assumptions) float64
}

func positive(v float64) bool { return isFinite(v) && v > 0 }

func zero(Assumptions) float64 { return 0 }

var (
	growthRatePolicy   = policy{"growth_rate", isFinite, func(a Assumptions) float64 { return a.DefaultGrowthRate }}
	betaPolicy         = policy{"beta", isFinite, func(a Assumptions) float64 { return a.DefaultBeta }}
	costOfEquityPolicy = policy{"cost_of_equity", positive, func(a Assumptions) float64 { return a.DefaultCostOfEquity }}
	taxRatePolicy      = policy{"tax_rate", isFinite, func(a Assumptions) float64 { return a.DefaultTaxRate }}
	interestPolicy     = policy{"interest_expense", isFinite, zero}
	depreciationPolicy = policy{"depreciation", isFinite, zero}
)

// resolve returns v when it was computed and passes the check, else the default.
func (p policy) resolve(a Assumptions, v float64, computed bool) (float64, bool) {
	if computed && p.valid(v) {
		return v, false
	}
	return p.fallback(a), true
}
