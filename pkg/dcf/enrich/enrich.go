// Package enrich looks up the current market price used to compare a
// valuation with the market.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	yfgo "github.com/komsit37/yf-go"
	"go.uber.org/zap"

	"github.com/komsit37/dcf/pkg/dcf/types"
)

// ErrNoPrice is returned when a service has no price for a ticker.
var ErrNoPrice = errors.New("no price")

// PriceService fetches the current quote for a ticker.
type PriceService interface {
	Get(ctx context.Context, ticker string) (types.Quote, error)
}

// YFService implements PriceService using yf-go.
type YFService struct {
	client  *yfgo.Client
	timeout time.Duration
}

func NewYFService(timeout time.Duration) *YFService {
	return &YFService{client: yfgo.NewClient(), timeout: timeout}
}

func (s *YFService) Get(ctx context.Context, ticker string) (types.Quote, error) {
	if ticker == "" {
		return types.Quote{}, nil
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	res, err := s.client.QuoteSummaryTyped(cctx, ticker, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	zap.L().Debug("quote summary",
		zap.String("ticker", ticker),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	if err != nil {
		return types.Quote{}, fmt.Errorf("quote %s: %w", ticker, err)
	}
	if res.Price == nil || res.Price.RegularMarketPrice.Raw == nil {
		return types.Quote{}, fmt.Errorf("%w for %s", ErrNoPrice, ticker)
	}

	p := res.Price.RegularMarketPrice
	q := types.Quote{Price: *p.Raw, PriceFmt: p.Fmt}
	if q.PriceFmt == "" {
		q.PriceFmt = fmt.Sprintf("%.2f", q.Price)
	}
	if res.Price.ShortName != "" {
		q.Name = res.Price.ShortName
	} else if res.Price.LongName != "" {
		q.Name = res.Price.LongName
	}
	return q, nil
}

// StaticService serves prices known up front, e.g. a "price" field in a company file.
type StaticService map[string]float64

// FromFields collects the numeric "price" field of each company.
func FromFields(companies []types.Company) StaticService {
	out := StaticService{}
	for _, c := range companies {
		if v, ok := toFloat(c.Fields["price"]); ok {
			out[c.Ticker] = v
		}
	}
	return out
}

func (s StaticService) Get(_ context.Context, ticker string) (types.Quote, error) {
	p, ok := s[ticker]
	if !ok {
		return types.Quote{}, fmt.Errorf("%w for %s", ErrNoPrice, ticker)
	}
	return types.Quote{Price: p, PriceFmt: strconv.FormatFloat(p, 'f', 2, 64)}, nil
}

// Fallback asks each service in order and returns the first price found.
type Fallback []PriceService

func (f Fallback) Get(ctx context.Context, ticker string) (types.Quote, error) {
	var errs []error
	for _, s := range f {
		q, err := s.Get(ctx, ticker)
		if err == nil {
			return q, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return types.Quote{}, fmt.Errorf("%w for %s", ErrNoPrice, ticker)
	}
	return types.Quote{}, errors.Join(errs...)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
