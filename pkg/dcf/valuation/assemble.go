package valuation

import (
	"github.com/komsit37/dcf/pkg/dcf/normalize"
	"github.com/komsit37/dcf/pkg/dcf/types"
)

// cashAndEquivalents is cash plus short-term investments when both resolve,
// else cash alone, else zero.
func cashAndEquivalents(n *normalize.Normalizer) float64 {
	cash, ok := latest(n, normalize.Cash)
	if !ok {
		return 0
	}
	if sti, ok := latest(n, normalize.ShortTermInvestments); ok {
		return cash + sti
	}
	return cash
}

func (e *Engine) assemble(n *normalize.Normalizer, profile types.CompanyProfile, rates types.RateEstimate,
	fcf []float64, fcfPV discounted, op operatingForecast, nopatPV discounted) (types.ValuationResult, error) {
	dcf := fcfPV.total + fcfPV.terminalPV

	ev := dcf
	if e.assumptions.Variant == VariantExtended {
		ev = nopatPV.total + nopatPV.terminalPV
	}
	netDebt := rates.TotalDebt - cashAndEquivalents(n)
	equity := ev - netDebt
	if err := checkFinite(Discounted, "Enterprise value", ev, netDebt, equity, dcf); err != nil {
		return types.ValuationResult{}, err
	}

	if profile.SharesOutstanding <= 0 {
		return types.ValuationResult{}, fail(ShareCountUnavailable, Discounted, "", "Shares outstanding not available")
	}
	perShare := dcf / float64(profile.SharesOutstanding)
	if err := checkFinite(Discounted, "Intrinsic value per share", perShare); err != nil {
		return types.ValuationResult{}, err
	}

	forecast := make([]types.ForecastYear, len(fcf))
	for i := range fcf {
		y := types.ForecastYear{Year: i + 1, FCF: fcf[i], FCFPV: fcfPV.pv[i]}
		if e.assumptions.Variant == VariantExtended {
			y.EBITDA = op.ebitda[i]
			y.EBIT = op.ebit[i]
			y.NOPAT = op.nopat[i]
			y.NOPATPV = nopatPV.pv[i]
		}
		forecast[i] = y
	}

	return types.ValuationResult{
		Name:                   profile.ShortName,
		Sector:                 profile.Sector,
		EnterpriseValue:        ev,
		NetDebt:                netDebt,
		EquityValue:            equity,
		DCFValue:               dcf,
		IntrinsicValuePerShare: perShare,
		TerminalValuePV:        fcfPV.terminalPV,
		Rates:                  rates,
		Forecast:               forecast,
	}, nil
}
