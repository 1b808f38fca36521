package basket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/komsit37/dcf/pkg/dcf/enrich"
	"github.com/komsit37/dcf/pkg/dcf/types"
	"github.com/komsit37/dcf/pkg/dcf/valuation"
)

// fakeValuer returns iv per ticker; tickers missing from the map fail.
type fakeValuer struct {
	iv      map[string]float64
	delay   time.Duration
	running atomic.Int32
	peak    atomic.Int32
}

func (f *fakeValuer) ValuateCompany(c types.Company) (types.ValuationResult, error) {
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.delay)
	iv, ok := f.iv[c.Ticker]
	if !ok {
		return types.ValuationResult{}, valuation.ErrShareCountUnavailable
	}
	return types.ValuationResult{Ticker: c.Ticker, IntrinsicValuePerShare: iv, Rates: types.RateEstimate{WACC: iv / 1000}}, nil
}

func companies(tickers ...string) []types.Company {
	out := make([]types.Company, len(tickers))
	for i, t := range tickers {
		out[i] = types.Company{Ticker: t}
	}
	return out
}

func TestRunToleratesFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	v := &fakeValuer{iv: map[string]float64{"A": 150, "C": 80, "D": 100}, delay: 5 * time.Millisecond}
	r := Runner{
		Valuer:      v,
		Prices:      enrich.StaticService{"A": 100, "C": 100},
		Concurrency: 2,
		Log:         zap.New(core),
	}

	out, err := r.Run(context.Background(), companies("A", "B", "C", "D"))
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.LessOrEqual(t, v.peak.Load(), int32(2))

	assert.Equal(t, "A", out[0].Company.Ticker)
	require.NotNil(t, out[0].Upside)
	assert.InDelta(t, 50, *out[0].Upside, 1e-9)
	assert.Equal(t, Undervalued, out[0].Verdict)

	assert.False(t, out[1].OK())
	assert.True(t, errors.Is(out[1].Err, valuation.ErrShareCountUnavailable))

	assert.Equal(t, Overvalued, out[2].Verdict)

	assert.True(t, out[3].OK())
	assert.Nil(t, out[3].Upside)
	assert.ErrorIs(t, out[3].PriceErr, enrich.ErrNoPrice)

	assert.Equal(t, 1, logs.FilterMessage("valuation skipped").Len())
	assert.Equal(t, 1, logs.FilterMessage("price unavailable").Len())
	summary := logs.FilterMessage("basket valued").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(3), summary[0].ContextMap()["valued"])
	assert.Equal(t, int64(1), summary[0].ContextMap()["failed"])
}

// countingValuer counts finished valuations.
type countingValuer struct {
	fakeValuer
	done atomic.Int32
}

func (c *countingValuer) ValuateCompany(co types.Company) (types.ValuationResult, error) {
	defer c.done.Add(1)
	return c.fakeValuer.ValuateCompany(co)
}

// seenPrices records how many valuations had finished at each lookup.
type seenPrices struct {
	v    *countingValuer
	mu   sync.Mutex
	seen map[string]int32
}

func (s *seenPrices) Get(_ context.Context, ticker string) (types.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[ticker] = s.v.done.Load()
	return types.Quote{Price: 100}, nil
}

func TestRunPricesAfterAllValuations(t *testing.T) {
	v := &countingValuer{fakeValuer: fakeValuer{iv: map[string]float64{"A": 150, "B": 95, "D": 60}, delay: 2 * time.Millisecond}}
	prices := &seenPrices{v: v, seen: map[string]int32{}}
	r := Runner{Valuer: v, Prices: prices, Concurrency: 3}

	out, err := r.Run(context.Background(), companies("A", "B", "C", "D"))
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, map[string]int32{"A": 4, "B": 4, "D": 4}, prices.seen, "failed companies are not priced")
	assert.Equal(t, FairlyValued, out[1].Verdict)
	assert.Nil(t, out[2].Quote)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Runner{Valuer: &fakeValuer{}, Concurrency: 4}.Run(ctx, companies("A", "B"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerdictFor(t *testing.T) {
	tests := []struct {
		upside float64
		want   Verdict
	}{
		{60, Undervalued},
		{25, FairlyValued},
		{0, FairlyValued},
		{-9.9, FairlyValued},
		{-10, Overvalued},
		{-80, Overvalued},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerdictFor(tt.upside), "upside %v", tt.upside)
	}
}

func TestUpside(t *testing.T) {
	up, ok := Upside(120, 100)
	assert.True(t, ok)
	assert.InDelta(t, 20, up, 1e-9)
	_, ok = Upside(120, 0)
	assert.False(t, ok)
}
