package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/filter"
	"github.com/komsit37/dcf/pkg/dcf/render"
	"github.com/komsit37/dcf/pkg/dcf/source"
	"github.com/komsit37/dcf/pkg/dcf/valuation"
)

func company(ticker, sector string, price float64) string {
	return fmt.Sprintf(`
  - ticker: %s
    price: %v
    profile: {beta: 1, market_cap: 1000, shares_outstanding: 10, sector: %s}
    periods: [2022-12-31, 2023-12-31]
    income:
      EBITDA: [80, 100]
      Reconciled Depreciation: [10, 10]
      Interest Expense: [-8, -10]
      Pretax Income: [50, 60]
      Tax Provision: [10, 12]
    cashflow:
      Operating Cash Flow: [150, 171]
      Capital Expenditure: [50, 50]
    balance:
      Long Term Debt: [200, 200]
      Cash And Cash Equivalents: [30, 50]`, ticker, price, sector)
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	industrials := "basket:" + company("DEAR", "Industrials", 10000) + company("ACME", "Industrials", 100) + `
  - ticker: EMPTY
    periods: [2023-12-31]
`
	software := "basket:" + company("SOFT", "Technology", 100)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "industrials.yaml"), []byte(industrials), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "software.yaml"), []byte(software), 0o644))
	return dir
}

func newRunner(t *testing.T, format string, w *bytes.Buffer) *Runner {
	t.Helper()
	eng, err := valuation.New()
	require.NoError(t, err)
	rdr, err := render.ForFormat(format)
	require.NoError(t, err)
	return &Runner{
		Source:   source.FileSource{},
		Basket:   basket.Runner{Valuer: eng, Concurrency: 2},
		Renderer: rdr,
		Writer:   w,
	}
}

func TestValueRanksAndToleratesFailures(t *testing.T) {
	r := newRunner(t, "table", &bytes.Buffer{})
	reports, err := r.Value(context.Background(), fixtureDir(t), ExecuteOptions{})
	require.NoError(t, err)
	require.Len(t, reports, 2)

	ind := reports[0]
	assert.Equal(t, "industrials", ind.Name)
	require.Len(t, ind.Outcomes, 3)
	assert.Equal(t, "ACME", ind.Outcomes[0].Company.Ticker)
	assert.Equal(t, basket.Undervalued, ind.Outcomes[0].Verdict)
	assert.Equal(t, "DEAR", ind.Outcomes[1].Company.Ticker)
	assert.Equal(t, basket.Overvalued, ind.Outcomes[1].Verdict)
	assert.Equal(t, "EMPTY", ind.Outcomes[2].Company.Ticker)
	assert.ErrorIs(t, ind.Outcomes[2].Err, valuation.ErrMissingStatementData)

	assert.Contains(t, ind.Columns, "iv")
	assert.Contains(t, ind.Columns, "upside%")
	assert.Contains(t, ind.Columns, "price")
}

func TestExecuteTickers(t *testing.T) {
	var buf bytes.Buffer
	err := newRunner(t, "tickers", &buf).Execute(context.Background(), fixtureDir(t), ExecuteOptions{Sort: basket.ByTicker})
	require.NoError(t, err)
	assert.Equal(t, "ACME,DEAR,SOFT\n", buf.String())
}

func TestExecuteFilters(t *testing.T) {
	names, err := filter.Parse("industrials")
	require.NoError(t, err)
	companies, err := filter.ParseCompany("ticker:acme")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = newRunner(t, "json", &buf).Execute(context.Background(), fixtureDir(t), ExecuteOptions{
		Filter:    names,
		Companies: companies,
		Columns:   []string{"ticker", "iv"},
	})
	require.NoError(t, err)

	var got []struct {
		Name     string   `json:"name"`
		Columns  []string `json:"columns"`
		Outcomes []struct {
			Ticker string `json:"ticker"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "industrials", got[0].Name)
	assert.Equal(t, []string{"ticker", "iv"}, got[0].Columns)
	require.Len(t, got[0].Outcomes, 1)
	assert.Equal(t, "ACME", got[0].Outcomes[0].Ticker)
}

func TestExecuteFlatten(t *testing.T) {
	sector, err := filter.ParseCompany("sector:/^(Industrials|Technology)$/")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = newRunner(t, "table", &buf).Execute(context.Background(), fixtureDir(t), ExecuteOptions{
		Companies: sector,
		Flatten:   "all",
		Columns:   []string{"ticker", "verdict"},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "TICKER"))
	for _, tk := range []string{"ACME", "DEAR", "SOFT"} {
		assert.Contains(t, out, tk)
	}
	assert.NotContains(t, out, "EMPTY")
}

func TestLoadMissingPath(t *testing.T) {
	r := newRunner(t, "table", &bytes.Buffer{})
	_, err := r.Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), ExecuteOptions{})
	assert.Error(t, err)
}
