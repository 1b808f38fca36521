package source

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/komsit37/dcf/pkg/dcf/types"
)

// companyDoc is the on-disk shape of one company.
type companyDoc struct {
	Ticker  string     `yaml:"ticker"`
	Name    string     `yaml:"name"`
	Profile profileDoc `yaml:"profile"`
	Periods []string   `yaml:"periods"`

	Income   map[string][]*float64 `yaml:"income"`
	CashFlow map[string][]*float64 `yaml:"cashflow"`
	Balance  map[string][]*float64 `yaml:"balance"`
}

type profileDoc struct {
	Beta              *float64 `yaml:"beta"`
	MarketCap         float64  `yaml:"market_cap"`
	SharesOutstanding int64    `yaml:"shares_outstanding"`
	Sector            string   `yaml:"sector"`
	ShortName         string   `yaml:"short_name"`
	TrailingPE        *float64 `yaml:"trailing_pe"`
	TrailingEPS       *float64 `yaml:"trailing_eps"`
}

var knownKeys = map[string]bool{
	"ticker": true, "name": true, "profile": true, "periods": true,
	"income": true, "cashflow": true, "balance": true, "basket": true,
}

// parseYAML parses baskets of companies. JSON is accepted as a YAML subset.
//
//	columns: [ticker, iv, upside]
//	basket:
//	  - ticker: ACME
//	    periods: [2022-12-31, 2023-12-31]
//	    income: {EBITDA: [80, 100]}
//	  - name: software
//	    basket: [...]
func parseYAML(data []byte) ([]types.Basket, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	root = norm(root)

	m, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid yaml: expected map with 'basket'")
	}

	var explicitCols []string
	if v, ok := m["columns"]; ok && v != nil {
		explicitCols = toStringSlice(v)
	}

	node, ok := m["basket"]
	if !ok || node == nil {
		return nil, fmt.Errorf("invalid yaml: missing 'basket'")
	}

	var baskets []types.Basket
	var walkErr error
	var walk func(node any, path []string)
	walk = func(node any, path []string) {
		switch n := node.(type) {
		case []any:
			// Leaf companies directly in this list form one basket.
			var companies []types.Company
			for _, e := range n {
				if !isLeaf(e) {
					continue
				}
				c, err := toCompany(e.(map[string]any))
				if err != nil && walkErr == nil {
					walkErr = err
				}
				companies = append(companies, c)
			}
			if len(companies) > 0 {
				baskets = append(baskets, types.Basket{
					Name:      strings.Join(path, "/"),
					Columns:   append([]string(nil), explicitCols...),
					Companies: companies,
				})
			}
			for _, e := range n {
				if g, ok := e.(map[string]any); ok {
					if child, ok := g["basket"]; ok {
						walk(child, groupPath(path, g))
					}
				}
			}
		case map[string]any:
			if child, ok := n["basket"]; ok {
				walk(child, groupPath(path, n))
				return
			}
			if isLeaf(n) {
				c, err := toCompany(n)
				if err != nil && walkErr == nil {
					walkErr = err
				}
				baskets = append(baskets, types.Basket{
					Name:      strings.Join(path, "/"),
					Columns:   append([]string(nil), explicitCols...),
					Companies: []types.Company{c},
				})
			}
		}
	}
	walk(node, nil)
	if walkErr != nil {
		return nil, walkErr
	}
	return baskets, nil
}

// norm converts maps with non-string keys to map[string]any.
func norm(v any) any {
	switch m := v.(type) {
	case map[any]any:
		mm := make(map[string]any, len(m))
		for k, val := range m {
			mm[fmt.Sprint(k)] = norm(val)
		}
		return mm
	case map[string]any:
		for k, val := range m {
			m[k] = norm(val)
		}
		return m
	case []any:
		out := make([]any, 0, len(m))
		for _, e := range m {
			out = append(out, norm(e))
		}
		return out
	default:
		return v
	}
}

func groupPath(path []string, g map[string]any) []string {
	next := append([]string(nil), path...)
	if name, ok := g["name"].(string); ok && name != "" {
		next = append(next, name)
	}
	return next
}

func toStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if e == nil {
				continue
			}
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return nil
	}
}

func isLeaf(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := m["basket"]; ok {
		return false
	}
	_, hasTicker := m["ticker"]
	return hasTicker
}

func toCompany(m map[string]any) (types.Company, error) {
	// Round-trip the generic node through the typed document.
	raw, err := yaml.Marshal(m)
	if err != nil {
		return types.Company{}, err
	}
	var doc companyDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return types.Company{}, fmt.Errorf("company %v: %w", m["ticker"], err)
	}
	c, err := doc.company()
	if err != nil {
		return types.Company{}, fmt.Errorf("company %s: %w", doc.Ticker, err)
	}
	for k, val := range m {
		if knownKeys[k] {
			continue
		}
		if c.Fields == nil {
			c.Fields = map[string]any{}
		}
		c.Fields[k] = val
	}
	return c, nil
}

func (d companyDoc) company() (types.Company, error) {
	if strings.TrimSpace(d.Ticker) == "" {
		return types.Company{}, fmt.Errorf("missing ticker")
	}
	periods, err := parsePeriods(d.Periods)
	if err != nil {
		return types.Company{}, err
	}
	c := types.Company{
		Ticker: strings.TrimSpace(d.Ticker),
		Profile: types.CompanyProfile{
			Beta:              d.Profile.Beta,
			MarketCap:         d.Profile.MarketCap,
			SharesOutstanding: d.Profile.SharesOutstanding,
			Sector:            d.Profile.Sector,
			ShortName:         d.Profile.ShortName,
			TrailingPE:        d.Profile.TrailingPE,
			TrailingEPS:       d.Profile.TrailingEPS,
		},
	}
	if c.Profile.ShortName == "" {
		c.Profile.ShortName = d.Name
	}
	if c.Income, err = statement(types.IncomeStatement, d.Income, periods); err != nil {
		return c, err
	}
	if c.CashFlow, err = statement(types.CashFlow, d.CashFlow, periods); err != nil {
		return c, err
	}
	if c.Balance, err = statement(types.BalanceSheet, d.Balance, periods); err != nil {
		return c, err
	}
	return c, nil
}

var periodLayouts = []string{"2006-01-02", time.RFC3339, "2006"}

func parsePeriods(raw []string) ([]time.Time, error) {
	out := make([]time.Time, len(raw))
	for i, s := range raw {
		var err error
		for _, layout := range periodLayouts {
			if out[i], err = time.Parse(layout, strings.TrimSpace(s)); err == nil {
				break
			}
		}
		if err != nil {
			return nil, fmt.Errorf("invalid period %q", s)
		}
	}
	return out, nil
}

// statement builds a statement; null values become NaN.
func statement(kind types.StatementKind, rows map[string][]*float64, periods []time.Time) (types.Statement, error) {
	st := types.Statement{Kind: kind, Rows: make(map[string]types.Series, len(rows))}
	for label, vals := range rows {
		if len(vals) != len(periods) {
			return st, fmt.Errorf("%s row %q has %d values for %d periods", kind, label, len(vals), len(periods))
		}
		s := make(types.Series, len(vals))
		for i, v := range vals {
			s[i] = types.Point{Period: periods[i], Value: math.NaN()}
			if v != nil {
				s[i].Value = *v
			}
		}
		st.Rows[label] = s
	}
	return st, nil
}
