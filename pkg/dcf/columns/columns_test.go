package columns

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/summary"
	"github.com/komsit37/dcf/pkg/dcf/types"
	"github.com/komsit37/dcf/pkg/dcf/valuation"
)

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$ 1,234.57 mil", Format{Millions: true}.Money(1234567890))
	assert.Equal(t, "$ -2.50 mil", Format{Millions: true}.Money(-2.5e6))
	assert.Equal(t, "$ 1,234,568", Format{}.Money(1234567.8))
	assert.Equal(t, "$ 12.35", PerShare(12.345678))
	assert.Equal(t, "N/A", PerShare(math.NaN()))
	assert.Equal(t, "3.50%", Percent(0.035))
	assert.Equal(t, "-1,000.0", formatFloatComma(-1000, 1))
	assert.Equal(t, "999", formatFloatComma(999, 0))
}

func valuedOutcome() basket.Outcome {
	up := 25.04
	return basket.Outcome{
		Company: types.Company{Ticker: "ACME", Fields: map[string]any{"exchange": "NYSE"}},
		Result: types.ValuationResult{
			IntrinsicValuePerShare: 125.04,
			EnterpriseValue:        2e9,
			Rates:                  types.RateEstimate{WACC: 0.035, WACCFloored: true, AvgGrowthRate: 0.05, Defaulted: []string{"beta", "tax_rate"}},
		},
		Quote:   &types.Quote{Price: 100, Name: "Acme Corporation"},
		Upside:  &up,
		Verdict: basket.Undervalued,
	}
}

func TestRenderValue(t *testing.T) {
	o := valuedOutcome()
	f := Format{Millions: true}
	assert.Equal(t, "ACME", RenderValue("ticker", o, f))
	assert.Equal(t, "Acme Corporation", RenderValue("name", o, f))
	assert.Equal(t, "$ 100.00", RenderValue("price", o, f))
	assert.Equal(t, "$ 125.04", RenderValue("iv", o, f))
	assert.Equal(t, "+25.0%", RenderValue("upside%", o, f))
	assert.Equal(t, "Undervalued", RenderValue("verdict", o, f))
	assert.Equal(t, "$ 2,000.00 mil", RenderValue("ev", o, f))
	assert.Equal(t, "3.50%*", RenderValue("wacc", o, f))
	assert.Equal(t, "5.00%", RenderValue("growth", o, f))
	assert.Equal(t, "beta,tax_rate", RenderValue("defaults", o, f))
	assert.Equal(t, "NYSE", RenderValue("exchange", o, f))
	assert.Equal(t, "", RenderValue("error", o, f))
	assert.Equal(t, "", RenderValue("unknown", o, f))
}

func TestRenderValueFailedOutcome(t *testing.T) {
	o := basket.Outcome{
		Company: types.Company{Ticker: "BAD"},
		Err:     &valuation.Error{Kind: valuation.InvalidMetric, Msg: "EBITDA data is invalid or non-positive"},
	}
	assert.Equal(t, "EBITDA data is invalid or non-positive", RenderValue("error", o, Format{}))
	assert.Equal(t, "", RenderValue("iv", o, Format{}))
	assert.Equal(t, "", RenderValue("ev", o, Format{}))

	o.Err = errors.New("plain")
	assert.Equal(t, "plain", RenderValue("error", o, Format{}))
}

func TestSummaryColumns(t *testing.T) {
	margin := 0.25
	o := basket.Outcome{Summary: summary.Summary{EBITDAMargin: &margin}}
	assert.Equal(t, "25.00%", RenderValue("ebitda_margin", o, Format{}))
	assert.Equal(t, "N/A", RenderValue("revenue", o, Format{}))
	assert.Equal(t, "N/A", RenderValue("pe", o, Format{}))
}

func TestCompute(t *testing.T) {
	assert.Equal(t, []string{"ticker", "iv"}, Compute([]string{"ticker", "iv", "ticker"}, nil))

	cols := Compute(nil, []basket.Outcome{valuedOutcome()})
	assert.Equal(t, append(append([]string(nil), Sets["valuation"]...), "exchange"), cols)
}

func TestExpandSets(t *testing.T) {
	cols, err := ExpandSets([]string{"rates", "valuation"})
	require.NoError(t, err)
	assert.Equal(t, "ticker", cols[0])
	assert.Equal(t, 1, countOf(cols, "ticker"))

	_, err = ExpandSets([]string{"nope"})
	var unknown *UnknownSetError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"forecast", "rates", "summary", "valuation"}, unknown.Available)
}

func TestEveryRegisteredSetColumnResolves(t *testing.T) {
	for name, cols := range Sets {
		for _, c := range cols {
			_, ok := Registry[c]
			assert.True(t, ok, "set %s column %s", name, c)
		}
	}
}

func countOf(s []string, v string) int {
	n := 0
	for _, e := range s {
		if e == v {
			n++
		}
	}
	return n
}
