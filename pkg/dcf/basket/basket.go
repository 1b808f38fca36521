// Package basket values many companies side by side. Valuations are
// independent and run in parallel; a failing company is reported in its
// Outcome and never aborts the basket.
package basket

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/komsit37/dcf/pkg/dcf/enrich"
	"github.com/komsit37/dcf/pkg/dcf/summary"
	"github.com/komsit37/dcf/pkg/dcf/trace"
	"github.com/komsit37/dcf/pkg/dcf/types"
	"github.com/komsit37/dcf/pkg/dcf/valuation"
)

// Verdict compares intrinsic value with the market price.
type Verdict string

const (
	Undervalued  Verdict = "Undervalued"
	FairlyValued Verdict = "Fairly Valued"
	Overvalued   Verdict = "Overvalued"
)

// VerdictFor classifies an upside percentage.
func VerdictFor(upside float64) Verdict {
	switch {
	case upside > 25:
		return Undervalued
	case upside > -10:
		return FairlyValued
	default:
		return Overvalued
	}
}

// Upside is the percentage by which intrinsic value exceeds price.
// ok is false when price is not positive.
func Upside(intrinsic, price float64) (float64, bool) {
	if price <= 0 {
		return 0, false
	}
	return (intrinsic - price) / price * 100, true
}

// Outcome is the result of valuing one company.
type Outcome struct {
	Company types.Company
	Result  types.ValuationResult
	Err     error
	Summary summary.Summary

	Quote    *types.Quote
	PriceErr error
	Upside   *float64
	Verdict  Verdict
}

// OK reports whether the valuation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Valuer values one company.
type Valuer interface {
	ValuateCompany(c types.Company) (types.ValuationResult, error)
}

// Runner values a basket with bounded parallelism.
type Runner struct {
	Valuer      Valuer
	Prices      enrich.PriceService // optional
	Concurrency int
	Log         *zap.Logger
}

// Run values every company and returns outcomes in input order. Prices are
// looked up once every valuation has finished. The only error is context
// cancellation.
func (r Runner) Run(ctx context.Context, companies []types.Company) ([]Outcome, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	ctx, span := trace.StartSpan(ctx, "basket.Run")
	defer span.End()
	span.SetAttributes(attribute.Int("basket.size", len(companies)))

	start := time.Now()
	out := make([]Outcome, len(companies))
	err := r.each(ctx, len(companies), func(ctx context.Context, i int) {
		out[i] = r.valueOne(ctx, log, companies[i])
	})
	if err == nil && r.Prices != nil {
		err = r.each(ctx, len(out), func(ctx context.Context, i int) {
			if out[i].OK() {
				r.priceOne(ctx, log, &out[i])
			}
		})
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var failed int
	for _, o := range out {
		if !o.OK() {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("basket.failed", failed))
	log.Info("basket valued",
		zap.Int("valued", len(out)-failed),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

// each runs fn for 0..n-1 with at most Concurrency calls in flight.
func (r Runner) each(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, i)
			return nil
		})
	}
	return g.Wait()
}

func (r Runner) valueOne(ctx context.Context, log *zap.Logger, c types.Company) Outcome {
	_, span := trace.StartSpan(ctx, "basket.Valuate")
	defer span.End()
	span.SetAttributes(attribute.String("company.ticker", c.Ticker))

	o := Outcome{Company: c, Summary: summary.Compute(c)}
	o.Result, o.Err = r.Valuer.ValuateCompany(c)
	if o.Err != nil {
		log.Warn("valuation skipped",
			zap.String("ticker", c.Ticker),
			zap.Stringer("kind", valuation.KindOf(o.Err)),
			zap.Error(o.Err))
		span.RecordError(o.Err)
		span.SetStatus(codes.Error, valuation.KindOf(o.Err).String())
		return o
	}
	span.SetAttributes(attribute.Float64("valuation.iv_per_share", o.Result.IntrinsicValuePerShare))
	return o
}

// priceOne attaches the quote, upside and verdict to a valued outcome.
func (r Runner) priceOne(ctx context.Context, log *zap.Logger, o *Outcome) {
	ctx, span := trace.StartSpan(ctx, "basket.Price")
	defer span.End()
	span.SetAttributes(attribute.String("company.ticker", o.Company.Ticker))

	q, err := r.Prices.Get(ctx, o.Company.Ticker)
	if err != nil {
		o.PriceErr = err
		log.Warn("price unavailable", zap.String("ticker", o.Company.Ticker), zap.Error(err))
		span.RecordError(err)
		return
	}
	o.Quote = &q
	if up, ok := Upside(o.Result.IntrinsicValuePerShare, q.Price); ok {
		o.Upside = &up
		o.Verdict = VerdictFor(up)
	}
}

// Report is one valued basket, ready for rendering.
type Report struct {
	Name     string
	Columns  []string
	Outcomes []Outcome
}
