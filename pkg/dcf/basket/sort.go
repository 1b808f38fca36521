package basket

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey names the value outcomes are ranked by.
type SortKey string

const (
	ByUpside SortKey = "upside"
	ByIV     SortKey = "iv"
	ByEV     SortKey = "ev"
	ByEquity SortKey = "equity"
	ByWACC   SortKey = "wacc"
	ByGrowth SortKey = "growth"
	ByTicker SortKey = "ticker"
)

// SortKeys lists the accepted keys.
var SortKeys = []SortKey{ByUpside, ByIV, ByEV, ByEquity, ByWACC, ByGrowth, ByTicker}

// ParseSortKey parses a key name, ignoring case.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortKeys {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q (want one of %v)", s, SortKeys)
}

// metric extracts the sort value; ok is false when the outcome has none.
func (k SortKey) metric(o Outcome) (float64, bool) {
	if !o.OK() {
		return 0, false
	}
	r := o.Result
	switch k {
	case ByUpside:
		if o.Upside == nil {
			return 0, false
		}
		return *o.Upside, true
	case ByIV:
		return r.IntrinsicValuePerShare, true
	case ByEV:
		return r.EnterpriseValue, true
	case ByEquity:
		return r.EquityValue, true
	case ByWACC:
		return r.Rates.WACC, true
	case ByGrowth:
		return r.Rates.AvgGrowthRate, true
	}
	return 0, false
}

// tier groups outcomes: ranked by the key, valued without the key (no
// price), failed.
func (k SortKey) tier(o Outcome) int {
	switch {
	case !o.OK():
		return 2
	case k == ByTicker:
		return 0
	}
	if _, ok := k.metric(o); ok {
		return 0
	}
	return 1
}

// Sort orders outcomes in place. Numeric keys rank highest first, except
// wacc which ranks lowest first; ticker sorts alphabetically. Outcomes
// without a value for the key keep their relative order after the ranked
// ones, and failed valuations come last.
func Sort(outcomes []Outcome, key SortKey) {
	sort.SliceStable(outcomes, func(i, j int) bool {
		a, b := outcomes[i], outcomes[j]
		ta, tb := key.tier(a), key.tier(b)
		if ta != tb {
			return ta < tb
		}
		if ta != 0 {
			return false
		}
		if key == ByTicker {
			return a.Company.Ticker < b.Company.Ticker
		}
		va, _ := key.metric(a)
		vb, _ := key.metric(b)
		if key == ByWACC {
			return va < vb
		}
		return va > vb
	})
}
