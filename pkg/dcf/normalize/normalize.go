// Package normalize resolves canonical line items from provider-specific
// statement row labels.
package normalize

import (
	"fmt"

	"github.com/komsit37/dcf/pkg/dcf/types"
)

// EmptyStatementError is returned when a whole statement carries no rows.
type EmptyStatementError struct {
	Kind types.StatementKind
}

func (e *EmptyStatementError) Error() string {
	return fmt.Sprintf("%s statement is empty", e.Kind)
}

// Resolve returns the series of the first label present in the statement.
// The returned label is the alias that matched.
func Resolve(st types.Statement, labels []string) (types.Series, string, bool) {
	for _, l := range labels {
		if s, ok := st.Rows[l]; ok {
			return s, l, true
		}
	}
	return nil, "", false
}

// Normalizer resolves canonical fields against the three statements of one company.
type Normalizer struct {
	statements map[types.StatementKind]types.Statement
}

// New checks that no statement is empty. Income, cash-flow and balance are
// checked in that order and the first empty one is reported.
func New(income, cashFlow, balance types.Statement) (*Normalizer, error) {
	byKind := map[types.StatementKind]types.Statement{
		types.IncomeStatement: income,
		types.CashFlow:        cashFlow,
		types.BalanceSheet:    balance,
	}
	for _, k := range []types.StatementKind{types.IncomeStatement, types.CashFlow, types.BalanceSheet} {
		if byKind[k].Empty() {
			return nil, &EmptyStatementError{Kind: k}
		}
	}
	return &Normalizer{statements: byKind}, nil
}

// ForCompany is New over a company's statements.
func ForCompany(c types.Company) (*Normalizer, error) {
	return New(c.Income, c.CashFlow, c.Balance)
}

// Series returns the resolved series for f, or false when no alias matched.
func (n *Normalizer) Series(f Field) (types.Series, bool) {
	s, _, ok := n.resolve(f)
	return s, ok
}

// Label returns which raw label f resolved to.
func (n *Normalizer) Label(f Field) (string, bool) {
	_, l, ok := n.resolve(f)
	return l, ok
}

// Latest returns the most recent period's value for f.
func (n *Normalizer) Latest(f Field) (float64, bool) {
	s, ok := n.Series(f)
	if !ok {
		return 0, false
	}
	return s.Latest()
}

func (n *Normalizer) resolve(f Field) (types.Series, string, bool) {
	a, ok := Table[f]
	if !ok {
		return nil, "", false
	}
	return Resolve(n.statements[a.Statement], a.Labels)
}
