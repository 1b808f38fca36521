package valuation

import "math"

// Discount returns the present value of each value, year i discounted by (1+wacc)^i.
func Discount(values []float64, wacc float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / math.Pow(1+wacc, float64(i+1))
	}
	return out
}

// TerminalValue is the Gordon-growth perpetuity value of the year after last.
func TerminalValue(last, wacc, growth float64) float64 {
	return last * (1 + growth) / (wacc - growth)
}

// TerminalValuePV discounts the terminal value back over horizon years.
func TerminalValuePV(last, wacc, growth float64, horizon int) float64 {
	return TerminalValue(last, wacc, growth) / math.Pow(1+wacc, float64(horizon))
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

// discounted is the present-value view of one projected stream.
type discounted struct {
	pv         []float64
	total      float64
	terminalPV float64
}

func (e *Engine) discount(values []float64, wacc float64, what string) (discounted, error) {
	d := discounted{pv: Discount(values, wacc)}
	d.total = sum(d.pv)
	d.terminalPV = TerminalValuePV(values[len(values)-1], wacc, e.assumptions.TerminalGrowthRate, len(values))
	if err := checkFinite(Projected, "Terminal value ("+what+")", d.terminalPV); err != nil {
		return d, err
	}
	if err := checkFinite(Projected, "Discounted "+what, d.total); err != nil {
		return d, err
	}
	return d, nil
}
