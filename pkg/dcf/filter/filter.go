package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/komsit37/dcf/pkg/dcf/types"
)

// Filter matches a basket name or a company attribute.
type Filter interface {
	Match(name string) bool
}

// Parse builds a filter from an expression:
// - Comma-separated exact names: "Core,International"
// - Glob: "Tech*"
// - Regex: "/^US-/"
// - Anything else: case-insensitive substring
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Always(true), nil
	}
	if strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2 {
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, err
		}
		return Regex{re: re}, nil
	}
	if strings.Contains(expr, ",") {
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			set[p] = struct{}{}
		}
		return ExactSet{set: set}, nil
	}
	if strings.ContainsAny(expr, "*?[") {
		if _, err := filepath.Match(expr, ""); err != nil {
			return nil, fmt.Errorf("glob %q: %w", expr, err)
		}
		return Glob{pattern: expr}, nil
	}
	return SubstrCI{needle: expr}, nil
}

// Implementations

type Always bool

func (a Always) Match(string) bool { return bool(a) }

type ExactSet struct{ set map[string]struct{} }

func (e ExactSet) Match(name string) bool {
	_, ok := e.set[name]
	return ok
}

type Glob struct{ pattern string }

func (g Glob) Match(name string) bool {
	ok, _ := filepath.Match(g.pattern, name)
	return ok
}

func (g Glob) String() string { return fmt.Sprintf("glob:%s", g.pattern) }

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(name string) bool { return r.re.MatchString(name) }

func (r Regex) String() string { return fmt.Sprintf("regex:%s", r.re) }

// SubstrCI matches if name contains needle, case-insensitively.
type SubstrCI struct{ needle string }

func (s SubstrCI) Match(name string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(s.needle))
}

func (s SubstrCI) String() string { return fmt.Sprintf("substr-ci:%s", s.needle) }

// CompanyFilter selects companies within a basket.
type CompanyFilter interface {
	MatchCompany(c types.Company) bool
}

// companyFields are the attributes a company expression can address.
var companyFields = map[string]func(types.Company) string{
	"ticker": func(c types.Company) string { return c.Ticker },
	"name":   func(c types.Company) string { return c.Name() },
	"sector": func(c types.Company) string { return c.Profile.Sector },
}

// Field applies a name filter to one company attribute.
type Field struct {
	name  string
	get   func(types.Company) string
	inner Filter
}

func (f Field) MatchCompany(c types.Company) bool { return f.inner.Match(f.get(c)) }

func (f Field) String() string { return fmt.Sprintf("%s=%v", f.name, f.inner) }

// ParseCompany parses "[field:]expr" where field is ticker (default), name or
// sector and expr uses the Parse syntax.
func ParseCompany(expr string) (CompanyFilter, error) {
	field := "ticker"
	if i := strings.Index(expr, ":"); i > 0 {
		if _, ok := companyFields[strings.ToLower(strings.TrimSpace(expr[:i]))]; ok {
			field = strings.ToLower(strings.TrimSpace(expr[:i]))
			expr = expr[i+1:]
		}
	}
	inner, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return Field{name: field, get: companyFields[field], inner: inner}, nil
}
