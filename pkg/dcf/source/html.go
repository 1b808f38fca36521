package source

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/komsit37/dcf/pkg/dcf/types"
)

// parseHTML reads a saved statement page: one company per document.
//
// The ticker comes from <meta name="ticker">. Each <table> is classified by
// its data-statement attribute, or by the heading just before it. Statement
// tables carry period dates in the header row and one line item per row;
// the profile table is key/value rows.
func parseHTML(data []byte) ([]types.Basket, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	ticker := strings.TrimSpace(doc.Find(`meta[name="ticker"]`).AttrOr("content", ""))
	if ticker == "" {
		return nil, fmt.Errorf("missing <meta name=\"ticker\">")
	}
	c := types.Company{Ticker: ticker}

	var parseErr error
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		title := tableTitle(table)
		kind := tableKind(table, title)
		switch kind {
		case "":
			return true
		case "profile":
			parseErr = parseProfile(table, &c.Profile)
		default:
			var st types.Statement
			st, parseErr = parseStatement(table, types.StatementKind(kind), scaleOf(table, title))
			if parseErr == nil {
				switch st.Kind {
				case types.IncomeStatement:
					c.Income = st
				case types.CashFlow:
					c.CashFlow = st
				case types.BalanceSheet:
					c.Balance = st
				}
			}
		}
		return parseErr == nil
	})
	if parseErr != nil {
		return nil, fmt.Errorf("company %s: %w", ticker, parseErr)
	}
	if c.Profile.ShortName == "" {
		c.Profile.ShortName = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return []types.Basket{{Companies: []types.Company{c}}}, nil
}

// tableTitle is the text of the heading-like element right before the table.
func tableTitle(table *goquery.Selection) string {
	if prev := table.Prev(); prev.Length() > 0 && !prev.Is("table") {
		return strings.TrimSpace(prev.Text())
	}
	return ""
}

func tableKind(table *goquery.Selection, title string) string {
	if k, ok := table.Attr("data-statement"); ok {
		k = strings.ToLower(strings.TrimSpace(k))
		switch k {
		case string(types.IncomeStatement), string(types.CashFlow), string(types.BalanceSheet), "profile":
			return k
		}
		return ""
	}
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "income"):
		return string(types.IncomeStatement)
	case strings.Contains(lower, "cash flow"):
		return string(types.CashFlow)
	case strings.Contains(lower, "balance"):
		return string(types.BalanceSheet)
	case strings.Contains(lower, "profile"):
		return "profile"
	}
	return ""
}

// scaleOf reads the unit multiplier from data-scale or the table title.
func scaleOf(table *goquery.Selection, title string) float64 {
	text := strings.ToLower(table.AttrOr("data-scale", title))
	switch {
	case strings.Contains(text, "billion"):
		return 1e9
	case strings.Contains(text, "million"):
		return 1e6
	case strings.Contains(text, "thousand"):
		return 1e3
	}
	return 1
}

func cells(row *goquery.Selection) []string {
	var out []string
	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.TrimSpace(cell.Text()))
	})
	return out
}

func parseStatement(table *goquery.Selection, kind types.StatementKind, scale float64) (types.Statement, error) {
	st := types.Statement{Kind: kind, Rows: map[string]types.Series{}}
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return st, nil
	}
	header := cells(rows.First())
	periods := make([]time.Time, 0, len(header))
	for _, h := range header[1:] {
		p, err := parsePeriod(h)
		if err != nil {
			return st, fmt.Errorf("%s header: %w", kind, err)
		}
		periods = append(periods, p)
	}

	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		vals := cells(row)
		if len(vals) == 0 || vals[0] == "" {
			return
		}
		s := make(types.Series, 0, len(periods))
		for i, p := range periods {
			v := math.NaN()
			if i+1 < len(vals) {
				v = parseCell(vals[i+1]) * scale
			}
			s = append(s, types.Point{Period: p, Value: v})
		}
		st.Rows[vals[0]] = s
	})
	return st, nil
}

var htmlPeriodLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006", "Jan 2, 2006", "2006"}

func parsePeriod(s string) (time.Time, error) {
	for _, layout := range htmlPeriodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid period %q", s)
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-eE]`)

// parseCell parses a number cell; blanks are NaN, parentheses negate.
func parseCell(raw string) float64 {
	switch raw {
	case "", "-", "—", "–", "N/A", "n/a", "--":
		return math.NaN()
	}
	neg := strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")")
	v, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(raw, ""), 64)
	if err != nil {
		return math.NaN()
	}
	if neg && v > 0 {
		v = -v
	}
	return v
}

var suffixScale = map[byte]float64{'K': 1e3, 'M': 1e6, 'B': 1e9, 'T': 1e12}

// parseAmount parses profile figures such as "2.5B".
func parseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.NaN()
	}
	if mult, ok := suffixScale[raw[len(raw)-1]]; ok {
		return parseCell(raw[:len(raw)-1]) * mult
	}
	return parseCell(raw)
}

func profileKey(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "_", "", "/", "", "(ttm)", "").Replace(s)
}

func parseProfile(table *goquery.Selection, p *types.CompanyProfile) error {
	var err error
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		kv := cells(row)
		if len(kv) < 2 {
			return true
		}
		val := kv[1]
		num := parseAmount(val)
		opt := func() *float64 {
			if math.IsNaN(num) {
				return nil
			}
			v := num
			return &v
		}
		switch profileKey(kv[0]) {
		case "beta", "beta(5ymonthly)":
			p.Beta = opt()
		case "marketcap":
			if !math.IsNaN(num) {
				p.MarketCap = num
			}
		case "sharesoutstanding":
			if !math.IsNaN(num) {
				if num < 0 || num >= math.MaxInt64 {
					err = fmt.Errorf("shares outstanding %q out of range", val)
					return false
				}
				p.SharesOutstanding = int64(num)
			}
		case "sector":
			p.Sector = val
		case "shortname", "name":
			p.ShortName = val
		case "trailingpe", "peratio":
			p.TrailingPE = opt()
		case "trailingeps", "eps":
			p.TrailingEPS = opt()
		}
		return true
	})
	return err
}
