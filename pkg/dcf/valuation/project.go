package valuation

import "math"

// Project grows last by rate for each of horizon years: year i is last*(1+rate)^i.
func Project(last, rate float64, horizon int) []float64 {
	out := make([]float64, horizon)
	for i := 1; i <= horizon; i++ {
		out[i-1] = last * math.Pow(1+rate, float64(i))
	}
	return out
}

// operatingForecast holds the EBITDA-derived projections of the extended model.
type operatingForecast struct {
	ebitda []float64
	ebit   []float64
	nopat  []float64
}

// projectOperating projects EBITDA and derives EBIT with a constant
// depreciation charge and NOPAT at the given tax rate.
func projectOperating(lastEBITDA, rate, depreciation, taxRate float64, horizon int) operatingForecast {
	f := operatingForecast{
		ebitda: Project(lastEBITDA, rate, horizon),
		ebit:   make([]float64, horizon),
		nopat:  make([]float64, horizon),
	}
	for i, v := range f.ebitda {
		f.ebit[i] = v - depreciation
		f.nopat[i] = f.ebit[i] * (1 - taxRate)
	}
	return f
}
