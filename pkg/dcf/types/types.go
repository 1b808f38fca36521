package types

import (
	"math"
	"sort"
	"time"
)

// StatementKind identifies one of the three financial statements.
type StatementKind string

const (
	IncomeStatement StatementKind = "income"
	CashFlow        StatementKind = "cashflow"
	BalanceSheet    StatementKind = "balance"
)

// Point is one value of a line item for a fiscal period.
type Point struct {
	Period time.Time
	Value  float64
}

// Series is a per-period line item. Missing values are NaN.
type Series []Point

// Sorted returns a copy ordered by ascending fiscal date.
func (s Series) Sorted() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out
}

// Values returns the values in ascending period order.
func (s Series) Values() []float64 {
	sorted := s.Sorted()
	out := make([]float64, len(sorted))
	for i, p := range sorted {
		out[i] = p.Value
	}
	return out
}

// Latest returns the value of the most recent period.
func (s Series) Latest() (float64, bool) {
	if len(s) == 0 {
		return math.NaN(), false
	}
	sorted := s.Sorted()
	return sorted[len(sorted)-1].Value, true
}

// Sub returns s minus o, aligned on the periods present in both and
// dropping periods where either side is not a finite number.
func (s Series) Sub(o Series) Series {
	other := make(map[int64]float64, len(o))
	for _, p := range o {
		other[p.Period.Unix()] = p.Value
	}
	out := make(Series, 0, len(s))
	for _, p := range s {
		v, ok := other[p.Period.Unix()]
		if !ok {
			continue
		}
		d := p.Value - v
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		out = append(out, Point{Period: p.Period, Value: d})
	}
	return out.Sorted()
}

// Statement is a raw statement as delivered by a data provider: row labels
// are provider specific and are resolved to canonical fields by package normalize.
type Statement struct {
	Kind StatementKind
	Rows map[string]Series
}

// Empty reports whether the statement carries no rows at all.
func (s Statement) Empty() bool {
	for _, row := range s.Rows {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// Labels returns the row labels sorted alphabetically.
func (s Statement) Labels() []string {
	out := make([]string, 0, len(s.Rows))
	for k := range s.Rows {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CompanyProfile holds scalar attributes fetched once per valuation.
type CompanyProfile struct {
	Beta              *float64 // nil when the provider has no beta
	MarketCap         float64
	SharesOutstanding int64
	Sector            string
	ShortName         string
	TrailingPE        *float64
	TrailingEPS       *float64
}

// Company bundles everything a valuation needs for one ticker.
type Company struct {
	Ticker   string
	Profile  CompanyProfile
	Income   Statement
	CashFlow Statement
	Balance  Statement
	Fields   map[string]any // extra user fields carried through for rendering
}

// Name returns the display name, falling back to the ticker.
func (c Company) Name() string {
	if c.Profile.ShortName != "" {
		return c.Profile.ShortName
	}
	return c.Ticker
}

// Statement returns the company's statement of the given kind.
func (c Company) Statement(kind StatementKind) Statement {
	switch kind {
	case IncomeStatement:
		return c.Income
	case CashFlow:
		return c.CashFlow
	}
	return c.Balance
}

// Basket is a named group of companies compared side by side.
type Basket struct {
	Name      string
	Columns   []string
	Companies []Company
}

// Quote contains the current market price used for upside computation.
type Quote struct {
	Price    float64
	PriceFmt string
	Name     string
}
