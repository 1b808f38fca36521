package valuation

import (
	"errors"
	"fmt"
	"strings"
)

// ForecastHorizon is the fixed number of projected fiscal years.
const ForecastHorizon = 5

// Variant selects which revision of the model is used.
type Variant string

const (
	// VariantExtended anchors growth on EBITDA and derives enterprise value from NOPAT.
	VariantExtended Variant = "extended"
	// VariantSimple anchors growth on free cash flow only.
	VariantSimple Variant = "simple"
)

// ParseVariant parses a variant name, ignoring case.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantExtended, "":
		return VariantExtended, nil
	case VariantSimple:
		return VariantSimple, nil
	}
	return "", fmt.Errorf("unknown model variant %q (want extended or simple)", s)
}

// Assumptions are the macro inputs and named defaults of the model.
type Assumptions struct {
	RiskFreeRate        float64
	MarketReturn        float64
	TerminalGrowthRate  float64
	DefaultGrowthRate   float64
	DefaultBeta         float64
	DefaultCostOfEquity float64
	DefaultTaxRate      float64
	// WACCFloorSpread is added to the terminal growth rate when WACC does not exceed it.
	WACCFloorSpread float64
	Variant         Variant
}

// DefaultAssumptions returns the stock macro assumptions.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		RiskFreeRate:        0.02,
		MarketReturn:        0.08,
		TerminalGrowthRate:  0.025,
		DefaultGrowthRate:   0.05,
		DefaultBeta:         1.0,
		DefaultCostOfEquity: 0.08,
		DefaultTaxRate:      0.21,
		WACCFloorSpread:     0.01,
		Variant:             VariantExtended,
	}
}

// Validate rejects assumptions the pipeline cannot work with.
func (a Assumptions) Validate() error {
	var errs []error
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"risk free rate", a.RiskFreeRate},
		{"market return", a.MarketReturn},
		{"terminal growth rate", a.TerminalGrowthRate},
		{"default growth rate", a.DefaultGrowthRate},
		{"default beta", a.DefaultBeta},
		{"default cost of equity", a.DefaultCostOfEquity},
		{"default tax rate", a.DefaultTaxRate},
		{"wacc floor spread", a.WACCFloorSpread},
	} {
		if !isFinite(f.v) {
			errs = append(errs, fmt.Errorf("%s must be a finite number", f.name))
		}
	}
	if a.TerminalGrowthRate < 0 {
		errs = append(errs, errors.New("terminal growth rate must not be negative"))
	}
	if a.WACCFloorSpread <= 0 {
		errs = append(errs, errors.New("wacc floor spread must be positive"))
	}
	if a.DefaultCostOfEquity <= 0 {
		errs = append(errs, errors.New("default cost of equity must be positive"))
	}
	if _, err := ParseVariant(string(a.Variant)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WACCFloor is the WACC used when the computed one does not exceed terminal growth.
func (a Assumptions) WACCFloor() float64 {
	return a.TerminalGrowthRate + a.WACCFloorSpread
}
