package normalize

import (
	"sort"
	"strings"

	"github.com/komsit37/dcf/pkg/dcf/types"
)

// Field is a canonical line-item name, independent of any provider label.
type Field string

const (
	OperatingCashFlow    Field = "OperatingCashFlow"
	CapitalExpenditures  Field = "CapitalExpenditures"
	EBITDA               Field = "EBITDA"
	Depreciation         Field = "Depreciation"
	InterestExpense      Field = "InterestExpense"
	IncomeBeforeTax      Field = "IncomeBeforeTax"
	IncomeTaxExpense     Field = "IncomeTaxExpense"
	ShortTermDebt        Field = "ShortTermDebt"
	LongTermDebt         Field = "LongTermDebt"
	Cash                 Field = "Cash"
	ShortTermInvestments Field = "ShortTermInvestments"

	// Summary-only fields.
	TotalRevenue     Field = "TotalRevenue"
	GrossProfit      Field = "GrossProfit"
	PretaxIncome     Field = "PretaxIncome"
	NetIncome        Field = "NetIncome"
	TotalAssets      Field = "TotalAssets"
	TotalLiabilities Field = "TotalLiabilities"
	EndCashPosition  Field = "EndCashPosition"
)

// Alias lists the raw labels accepted for a field, in preference order,
// and the statement they are looked up in.
type Alias struct {
	Statement types.StatementKind
	Labels    []string
}

// Table is the alias table shared by every statement type. Labels are
// compared exactly as the provider spells them.
var Table = map[Field]Alias{
	OperatingCashFlow: {types.CashFlow, []string{
		"Total Cash From Operating Activities",
		"Net Cash Provided by Operating Activities",
		"Operating Cash Flow",
		"Cash from Operating Activities",
	}},
	CapitalExpenditures: {types.CashFlow, []string{
		"Capital Expenditures",
		"Investment in Property, Plant and Equipment",
		"Purchases of Property and Equipment",
		"Capital Expenditure",
	}},
	EndCashPosition: {types.CashFlow, []string{"End Cash Position"}},

	EBITDA:           {types.IncomeStatement, []string{"EBITDA", "Normalized EBITDA"}},
	Depreciation:     {types.IncomeStatement, []string{"Depreciation", "Reconciled Depreciation", "Depreciation And Amortization"}},
	InterestExpense:  {types.IncomeStatement, []string{"Interest Expense", "Interest Expense Non Operating"}},
	IncomeBeforeTax:  {types.IncomeStatement, []string{"Income Before Tax", "Pretax Income"}},
	IncomeTaxExpense: {types.IncomeStatement, []string{"Income Tax Expense", "Tax Provision"}},
	TotalRevenue:     {types.IncomeStatement, []string{"Total Revenue", "Operating Revenue"}},
	GrossProfit:      {types.IncomeStatement, []string{"Gross Profit"}},
	PretaxIncome:     {types.IncomeStatement, []string{"Pretax Income", "Income Before Tax"}},
	NetIncome:        {types.IncomeStatement, []string{"Net Income", "Net Income Common Stockholders"}},

	ShortTermDebt:        {types.BalanceSheet, []string{"Short Long Term Debt", "Current Debt"}},
	LongTermDebt:         {types.BalanceSheet, []string{"Long Term Debt"}},
	Cash:                 {types.BalanceSheet, []string{"Cash", "Cash And Cash Equivalents"}},
	ShortTermInvestments: {types.BalanceSheet, []string{"Short Term Investments", "Other Short Term Investments"}},
	TotalAssets:          {types.BalanceSheet, []string{"Total Assets"}},
	TotalLiabilities:     {types.BalanceSheet, []string{"Total Liabilities Net Minority Interest", "Total Liab"}},
}

// Fields returns every canonical field in the table, sorted by name.
func Fields() []Field {
	out := make([]Field, 0, len(Table))
	for f := range Table {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup finds a field by name, ignoring case.
func Lookup(name string) (Field, error) {
	for f := range Table {
		if strings.EqualFold(string(f), strings.TrimSpace(name)) {
			return f, nil
		}
	}
	avail := make([]string, 0, len(Table))
	for _, f := range Fields() {
		avail = append(avail, string(f))
	}
	return "", &UnknownFieldError{Name: name, Available: avail}
}

// UnknownFieldError reports a field name that has no alias entry.
type UnknownFieldError struct {
	Name      string
	Available []string
}

func (e *UnknownFieldError) Error() string {
	return "unknown field: " + e.Name + "; available: " + strings.Join(e.Available, ", ")
}
