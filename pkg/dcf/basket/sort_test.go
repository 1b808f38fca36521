package basket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/dcf/pkg/dcf/types"
)

func outcome(ticker string, iv, wacc float64, upside *float64) Outcome {
	return Outcome{
		Company: types.Company{Ticker: ticker},
		Result:  types.ValuationResult{IntrinsicValuePerShare: iv, Rates: types.RateEstimate{WACC: wacc}},
		Upside:  upside,
	}
}

func failed(ticker string) Outcome {
	return Outcome{Company: types.Company{Ticker: ticker}, Err: errors.New("no data")}
}

func tickers(out []Outcome) []string {
	var s []string
	for _, o := range out {
		s = append(s, o.Company.Ticker)
	}
	return s
}

func f(v float64) *float64 { return &v }

func TestSort(t *testing.T) {
	base := func() []Outcome {
		return []Outcome{
			failed("X"),
			outcome("B", 10, 0.09, f(5)),
			outcome("A", 30, 0.07, nil),
			failed("W"),
			outcome("C", 20, 0.08, f(40)),
		}
	}
	tests := []struct {
		key  SortKey
		want []string
	}{
		{ByUpside, []string{"C", "B", "A", "X", "W"}},
		{ByIV, []string{"A", "C", "B", "X", "W"}},
		{ByWACC, []string{"A", "C", "B", "X", "W"}},
		{ByTicker, []string{"A", "B", "C", "X", "W"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			out := base()
			Sort(out, tt.key)
			assert.Equal(t, tt.want, tickers(out))
		})
	}
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey(" IV ")
	require.NoError(t, err)
	assert.Equal(t, ByIV, k)
	_, err = ParseSortKey("pe")
	assert.Error(t, err)
}
