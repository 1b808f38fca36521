package valuation

import (
	"math"

	"go.uber.org/zap"

	"github.com/komsit37/dcf/pkg/dcf/normalize"
	"github.com/komsit37/dcf/pkg/dcf/types"
)

// GrowthRate averages the period-over-period change of values, which must be
// in ascending period order. Pairs whose previous value is zero are skipped.
// ok is false when no pair qualified or the average is not finite.
func GrowthRate(values []float64) (rate float64, ok bool) {
	var sum float64
	var n int
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		sum += (values[i] - prev) / math.Abs(prev)
		n++
	}
	if n == 0 {
		return 0, false
	}
	avg := sum / float64(n)
	return avg, isFinite(avg)
}

// CostOfEquity is the CAPM required return.
func CostOfEquity(riskFree, beta, marketReturn float64) float64 {
	return riskFree + beta*(marketReturn-riskFree)
}

// WACC blends the cost of equity and the after-tax cost of debt by market weights.
func WACC(marketCap, totalDebt, costOfEquity, costOfDebt, taxRate float64) float64 {
	total := marketCap + totalDebt
	we := marketCap / total
	wd := totalDebt / total
	return we*costOfEquity + wd*costOfDebt*(1-taxRate)
}

// latest returns the most recent value of f when it resolved to a finite number.
func latest(n *normalize.Normalizer, f normalize.Field) (float64, bool) {
	v, ok := n.Latest(f)
	if !ok || !isFinite(v) {
		return 0, false
	}
	return v, true
}

func (e *Engine) applyDefault(est *types.RateEstimate, p policy, v float64, computed bool) float64 {
	out, defaulted := p.resolve(e.assumptions, v, computed)
	if defaulted {
		est.Defaulted = append(est.Defaulted, p.name)
		e.log.Debug("default applied", zap.String("value", p.name), zap.Float64("default", out))
	}
	return out
}

// estimateRates derives growth, cost of capital and WACC. anchor is the
// growth-anchor series in ascending period order.
func (e *Engine) estimateRates(n *normalize.Normalizer, profile types.CompanyProfile, anchor []float64) (types.RateEstimate, error) {
	a := e.assumptions
	var est types.RateEstimate

	g, ok := GrowthRate(anchor)
	est.AvgGrowthRate = e.applyDefault(&est, growthRatePolicy, g, ok)

	var beta float64
	if profile.Beta != nil {
		beta = *profile.Beta
	}
	beta = e.applyDefault(&est, betaPolicy, beta, profile.Beta != nil)
	coe := CostOfEquity(a.RiskFreeRate, beta, a.MarketReturn)
	est.CostOfEquity = e.applyDefault(&est, costOfEquityPolicy, coe, true)

	longTerm, ok := latest(n, normalize.LongTermDebt)
	if !ok {
		return est, fail(UnresolvedLineItem, StatementsResolved, string(normalize.LongTermDebt), "Debt data not available")
	}
	est.TotalDebt = longTerm
	if shortTerm, ok := latest(n, normalize.ShortTermDebt); ok {
		est.TotalDebt += shortTerm
	}

	interest, ok := latest(n, normalize.InterestExpense)
	interest = e.applyDefault(&est, interestPolicy, interest, ok)
	if est.TotalDebt > 0 {
		est.CostOfDebt = math.Abs(interest) / est.TotalDebt
	}

	var tax float64
	pretax, okPretax := latest(n, normalize.IncomeBeforeTax)
	taxExp, okTax := latest(n, normalize.IncomeTaxExpense)
	if okPretax && okTax {
		tax = taxExp / pretax
	}
	est.TaxRate = e.applyDefault(&est, taxRatePolicy, tax, okPretax && okTax)

	totalValue := profile.MarketCap + est.TotalDebt
	if err := checkFinite(StatementsResolved, "Capital structure", totalValue); err != nil {
		return est, err
	}
	if totalValue == 0 {
		return est, fail(InvalidMetric, StatementsResolved, "", "Market capitalization or total debt data not available")
	}

	wacc := WACC(profile.MarketCap, est.TotalDebt, est.CostOfEquity, est.CostOfDebt, est.TaxRate)
	if err := checkFinite(StatementsResolved, "WACC", wacc); err != nil {
		return est, err
	}
	if wacc <= 0 {
		return est, fail(InvalidMetric, StatementsResolved, "", "WACC calculation invalid")
	}
	if wacc <= a.TerminalGrowthRate {
		e.log.Debug("wacc does not exceed terminal growth; flooring",
			zap.Float64("wacc", wacc), zap.Float64("floor", a.WACCFloor()))
		wacc = a.WACCFloor()
		est.WACCFloored = true
	}
	est.WACC = wacc
	return est, nil
}
