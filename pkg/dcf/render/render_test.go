package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/columns"
	"github.com/komsit37/dcf/pkg/dcf/types"
	"github.com/komsit37/dcf/pkg/dcf/valuation"
)

func reports() []basket.Report {
	up := 25.04
	good := basket.Outcome{
		Company: types.Company{Ticker: "ACME", Profile: types.CompanyProfile{ShortName: "Acme"}},
		Result:  types.ValuationResult{Ticker: "ACME", IntrinsicValuePerShare: 125.04, EnterpriseValue: 2e9},
		Quote:   &types.Quote{Price: 100},
		Upside:  &up,
		Verdict: basket.Undervalued,
	}
	bad := basket.Outcome{
		Company: types.Company{Ticker: "BAD"},
		Err:     &valuation.Error{Kind: valuation.ShareCountUnavailable, State: valuation.Discounted, Msg: "Shares outstanding not available"},
	}
	plain := basket.Outcome{Company: types.Company{Ticker: "ODD"}, Err: errors.New("fetch failed")}
	return []basket.Report{
		{Name: "industrials", Columns: []string{"ticker", "iv", "upside%", "ev", "error"}, Outcomes: []basket.Outcome{good, bad}},
		{Name: "other", Columns: []string{"ticker"}, Outcomes: []basket.Outcome{plain}},
	}
}

func TestTableRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableRenderer().Render(&buf, reports(), RenderOptions{Format: columns.Format{Millions: true}})
	require.NoError(t, err)
	out := buf.String()
	for _, want := range []string{"INDUSTRIALS", "OTHER", "TICKER", "ACME", "$ 125.04", "+25.0%", "$ 2,000.00 mil", "Shares outstanding not available", "ODD"} {
		assert.Contains(t, out, want)
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONRenderer().Render(&buf, reports(), RenderOptions{Format: columns.Format{Millions: true}, PrettyJSON: true})
	require.NoError(t, err)

	var got []struct {
		Name     string `json:"name"`
		Outcomes []struct {
			Ticker    string `json:"ticker"`
			Valuation *struct {
				EnterpriseValue float64 `json:"enterprise_value"`
			} `json:"valuation"`
			Error *struct {
				Kind    string `json:"kind"`
				State   string `json:"state"`
				Message string `json:"message"`
			} `json:"error"`
			Price   *float64 `json:"price"`
			Verdict string   `json:"verdict"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	acme := got[0].Outcomes[0]
	require.NotNil(t, acme.Valuation)
	assert.Equal(t, 2000.0, acme.Valuation.EnterpriseValue)
	assert.Equal(t, 100.0, *acme.Price)
	assert.Equal(t, "Undervalued", acme.Verdict)

	bad := got[0].Outcomes[1]
	assert.Nil(t, bad.Valuation)
	require.NotNil(t, bad.Error)
	assert.Equal(t, "share count unavailable", bad.Error.Kind)
	assert.Equal(t, "discounted", bad.Error.State)
	assert.Equal(t, "Shares outstanding not available", bad.Error.Message)

	assert.Equal(t, "fetch failed", got[1].Outcomes[0].Error.Message)
}

func TestTickersRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTickersRenderer().Render(&buf, reports(), RenderOptions{}))
	assert.Equal(t, "ACME\n", buf.String())
}

func TestForFormat(t *testing.T) {
	for _, f := range []string{"", "table", "detail", "json", "tickers"} {
		_, err := ForFormat(f)
		assert.NoError(t, err, f)
	}
	_, err := ForFormat("csv")
	assert.Error(t, err)
}

func TestAliases(t *testing.T) {
	var buf bytes.Buffer
	Aliases(&buf)
	assert.Contains(t, buf.String(), "ShortTermInvestments")
	assert.Contains(t, buf.String(), "Cash And Cash Equivalents")

	buf.Reset()
	period := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	Resolution(&buf, []types.Company{{
		Ticker:   "ACME",
		CashFlow: types.Statement{Rows: map[string]types.Series{"Operating Cash Flow": {{Period: period, Value: 1}}}},
	}})
	assert.Contains(t, buf.String(), "ACME")
	assert.Contains(t, buf.String(), "Operating Cash Flow")
}

func TestDetailRenderer(t *testing.T) {
	reps := reports()
	reps[0].Outcomes[0].Result.Forecast = []types.ForecastYear{
		{Year: 1, FCF: 1.1e6, FCFPV: 1e6, EBITDA: 2e6, EBIT: 1.5e6, NOPAT: 1.2e6, NOPATPV: 1.1e6},
	}
	var buf bytes.Buffer
	require.NoError(t, NewDetailRenderer().Render(&buf, reps, RenderOptions{Format: columns.Format{Millions: true}}))
	out := buf.String()
	for _, want := range []string{"ACME", "Intrinsic value / share", "$ 125.04", "Undervalued", "PV(NOPAT)", "$ 1.20 mil", "BAD", "Shares outstanding not available", "fetch failed"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Defaults applied", "empty rows are skipped")
}
