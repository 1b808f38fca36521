package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/dcf/pkg/dcf/types"
)

func yearly(vals ...float64) types.Series {
	s := make(types.Series, len(vals))
	for i, v := range vals {
		s[i] = types.Point{Period: time.Date(2020+i, 12, 31, 0, 0, 0, 0, time.UTC), Value: v}
	}
	return s
}

func statement(kind types.StatementKind, rows map[string]types.Series) types.Statement {
	return types.Statement{Kind: kind, Rows: rows}
}

func TestResolveEachAliasAlone(t *testing.T) {
	for _, f := range Fields() {
		alias := Table[f]
		for i, label := range alias.Labels {
			want := yearly(float64(i+1), float64(i+2))
			st := statement(alias.Statement, map[string]types.Series{label: want, "Unrelated": yearly(-1)})
			got, matched, ok := Resolve(st, alias.Labels)
			require.True(t, ok, "%s via %q", f, label)
			assert.Equal(t, label, matched)
			assert.Equal(t, want, got)
		}
	}
}

func TestResolveFirstAliasWins(t *testing.T) {
	labels := Table[OperatingCashFlow].Labels
	st := statement(types.CashFlow, map[string]types.Series{
		labels[3]: yearly(4),
		labels[1]: yearly(2),
		labels[2]: yearly(3),
	})
	got, matched, ok := Resolve(st, labels)
	require.True(t, ok)
	assert.Equal(t, labels[1], matched)
	assert.Equal(t, yearly(2), got)
}

func TestResolveIsExactMatch(t *testing.T) {
	st := statement(types.IncomeStatement, map[string]types.Series{"ebitda": yearly(1), "EBITDA ": yearly(2)})
	_, _, ok := Resolve(st, Table[EBITDA].Labels)
	assert.False(t, ok)
}

func TestNewReportsFirstEmptyStatement(t *testing.T) {
	full := func(k types.StatementKind) types.Statement {
		return statement(k, map[string]types.Series{"x": yearly(1)})
	}
	_, err := New(types.Statement{}, types.Statement{}, full(types.BalanceSheet))
	var empty *EmptyStatementError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, types.IncomeStatement, empty.Kind)

	_, err = New(full(types.IncomeStatement), full(types.CashFlow), statement(types.BalanceSheet, map[string]types.Series{"x": nil}))
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, types.BalanceSheet, empty.Kind)
	assert.Equal(t, "balance statement is empty", err.Error())
}

func TestNormalizerLookupsUseOwningStatement(t *testing.T) {
	income := statement(types.IncomeStatement, map[string]types.Series{
		"Normalized EBITDA": yearly(10, 30, 20),
		"Long Term Debt":    yearly(999),
	})
	cash := statement(types.CashFlow, map[string]types.Series{"Operating Cash Flow": yearly(5)})
	balance := statement(types.BalanceSheet, map[string]types.Series{"Cash": yearly(7)})
	n, err := New(income, cash, balance)
	require.NoError(t, err)

	v, ok := n.Latest(EBITDA)
	require.True(t, ok)
	assert.Equal(t, 20.0, v)

	label, ok := n.Label(EBITDA)
	require.True(t, ok)
	assert.Equal(t, "Normalized EBITDA", label)

	_, ok = n.Series(LongTermDebt)
	assert.False(t, ok, "long term debt is only looked up on the balance sheet")
	_, ok = n.Latest(CapitalExpenditures)
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	f, err := Lookup("ebitda")
	require.NoError(t, err)
	assert.Equal(t, EBITDA, f)

	_, err = Lookup("Revenue")
	var unknown *UnknownFieldError
	require.True(t, errors.As(err, &unknown))
	assert.Contains(t, unknown.Available, string(TotalRevenue))
}
