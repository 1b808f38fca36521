// Package valuation turns normalized financial statements into a
// discounted-cash-flow intrinsic value per share.
package valuation

import (
	"errors"

	"go.uber.org/zap"

	"github.com/komsit37/dcf/pkg/dcf/normalize"
	"github.com/komsit37/dcf/pkg/dcf/types"
)

// Engine values companies. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	assumptions Assumptions
	log         *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithAssumptions replaces the default macro assumptions.
func WithAssumptions(a Assumptions) Option {
	return func(e *Engine) { e.assumptions = a }
}

// WithLogger sets the logger used for debug tracing of defaults and stages.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New builds an engine; assumptions are validated.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{assumptions: DefaultAssumptions(), log: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	if err := e.assumptions.Validate(); err != nil {
		return nil, err
	}
	if e.assumptions.Variant == "" {
		e.assumptions.Variant = VariantExtended
	}
	return e, nil
}

// Assumptions returns the assumptions the engine runs with.
func (e *Engine) Assumptions() Assumptions { return e.assumptions }

// inputs are the resolved historical series the later stages work from.
type inputs struct {
	fcf        []float64 // ascending
	anchor     []float64 // growth anchor, ascending
	lastEBITDA float64
}

// ValuateCompany values c and stamps its identity on the result.
func (e *Engine) ValuateCompany(c types.Company) (types.ValuationResult, error) {
	res, err := e.Valuate(c.Income, c.CashFlow, c.Balance, c.Profile)
	if err != nil {
		return types.ValuationResult{}, err
	}
	res.Ticker = c.Ticker
	res.Name = c.Name()
	return res, nil
}

// Valuate runs the full pipeline. It returns either a fully populated result
// or a *Error; never both.
func (e *Engine) Valuate(income, cashFlow, balance types.Statement, profile types.CompanyProfile) (types.ValuationResult, error) {
	n, err := normalize.New(income, cashFlow, balance)
	if err != nil {
		var empty *normalize.EmptyStatementError
		if errors.As(err, &empty) {
			return types.ValuationResult{}, &Error{Kind: MissingStatementData, State: Start, Field: string(empty.Kind),
				Msg: "Financial data not available for this ticker", Err: err}
		}
		return types.ValuationResult{}, err
	}

	in, err := e.resolveInputs(n)
	if err != nil {
		return types.ValuationResult{}, err
	}
	e.log.Debug("stage", zap.Stringer("state", StatementsResolved), zap.Int("fcf_periods", len(in.fcf)))

	rates, err := e.estimateRates(n, profile, in.anchor)
	if err != nil {
		return types.ValuationResult{}, err
	}
	e.log.Debug("stage", zap.Stringer("state", RatesEstimated),
		zap.Float64("growth", rates.AvgGrowthRate), zap.Float64("wacc", rates.WACC))

	lastFCF := in.fcf[len(in.fcf)-1]
	fcf := Project(lastFCF, rates.AvgGrowthRate, ForecastHorizon)
	if err := checkFinite(RatesEstimated, "Projected FCF", fcf...); err != nil {
		return types.ValuationResult{}, err
	}
	var op operatingForecast
	if e.assumptions.Variant == VariantExtended {
		dep, ok := latest(n, normalize.Depreciation)
		dep = e.applyDefault(&rates, depreciationPolicy, dep, ok)
		op = projectOperating(in.lastEBITDA, rates.AvgGrowthRate, dep, rates.TaxRate, ForecastHorizon)
		if err := checkFinite(RatesEstimated, "Projected NOPAT", op.nopat...); err != nil {
			return types.ValuationResult{}, err
		}
	}
	e.log.Debug("stage", zap.Stringer("state", Projected))

	fcfPV, err := e.discount(fcf, rates.WACC, "FCF")
	if err != nil {
		return types.ValuationResult{}, err
	}
	var nopatPV discounted
	if e.assumptions.Variant == VariantExtended {
		if nopatPV, err = e.discount(op.nopat, rates.WACC, "NOPAT"); err != nil {
			return types.ValuationResult{}, err
		}
	}
	e.log.Debug("stage", zap.Stringer("state", Discounted))

	return e.assemble(n, profile, rates, fcf, fcfPV, op, nopatPV)
}

// resolveInputs resolves the cash-flow and growth-anchor series and checks
// the preconditions for projecting them.
func (e *Engine) resolveInputs(n *normalize.Normalizer) (inputs, error) {
	var in inputs
	ocf, ok := n.Series(normalize.OperatingCashFlow)
	if !ok {
		return in, fail(UnresolvedLineItem, Start, string(normalize.OperatingCashFlow),
			"Necessary financial data not found in cash flow statement")
	}
	capex, ok := n.Series(normalize.CapitalExpenditures)
	if !ok {
		return in, fail(UnresolvedLineItem, Start, string(normalize.CapitalExpenditures),
			"Necessary financial data not found in cash flow statement")
	}

	if e.assumptions.Variant == VariantExtended {
		ebitda, ok := n.Series(normalize.EBITDA)
		if !ok {
			return in, fail(UnresolvedLineItem, Start, string(normalize.EBITDA), "EBITDA data not available")
		}
		in.anchor = ebitda.Values()
		if len(in.anchor) > 0 {
			in.lastEBITDA = in.anchor[len(in.anchor)-1]
		}
		if len(in.anchor) == 0 || !isFinite(in.lastEBITDA) || in.lastEBITDA <= 0 {
			return in, fail(InvalidMetric, Start, string(normalize.EBITDA), "EBITDA data is invalid or non-positive")
		}
	}

	// Older gaps are dropped when differencing; the latest period must be present.
	for _, f := range []struct {
		field  normalize.Field
		series types.Series
	}{{normalize.OperatingCashFlow, ocf}, {normalize.CapitalExpenditures, capex}} {
		if v, ok := f.series.Latest(); !ok || !isFinite(v) {
			return in, fail(InvalidMetric, Start, string(f.field), "Free cash flow data is invalid")
		}
	}

	in.fcf = ocf.Sub(capex).Values()
	if len(in.fcf) < 2 {
		return in, fail(InsufficientHistory, Start, "", "Not enough data to perform DCF")
	}
	if e.assumptions.Variant == VariantSimple {
		in.anchor = in.fcf
	}
	return in, nil
}
