package model

import "encoding/json"

// StatementKind is one of the three raw financial-statement categories
// joined by report date.
type StatementKind string

const (
	StatementIncome   StatementKind = "income"
	StatementBalance  StatementKind = "balance"
	StatementCashflow StatementKind = "cashflow"
)

// Field names a recognized statement line item. The set is closed: a field
// outside this enumeration is never fetched and never populated.
type Field string

const (
	FieldRevenue         Field = "revenue"
	FieldGrossProfit     Field = "gross_profit"
	FieldOperatingIncome Field = "operating_income"
	FieldNetIncome       Field = "net_income"
	FieldEBITDA          Field = "ebitda"
	FieldInterestExpense Field = "interest_expense"

	FieldTotalAssets        Field = "total_assets"
	FieldTotalLiabilities   Field = "total_liabilities"
	FieldTotalEquity        Field = "total_equity"
	FieldCurrentAssets      Field = "current_assets"
	FieldCurrentLiabilities Field = "current_liabilities"
	FieldInventory          Field = "inventory"
	FieldCash               Field = "cash"

	FieldOperatingCashFlow Field = "operating_cash_flow"
	FieldFreeCashFlow      Field = "free_cash_flow"
)

// fieldStatements maps each recognized field to the statement kind that
// carries it.
var fieldStatements = map[Field]StatementKind{
	FieldRevenue:         StatementIncome,
	FieldGrossProfit:     StatementIncome,
	FieldOperatingIncome: StatementIncome,
	FieldNetIncome:       StatementIncome,
	FieldEBITDA:          StatementIncome,
	FieldInterestExpense: StatementIncome,

	FieldTotalAssets:        StatementBalance,
	FieldTotalLiabilities:   StatementBalance,
	FieldTotalEquity:        StatementBalance,
	FieldCurrentAssets:      StatementBalance,
	FieldCurrentLiabilities: StatementBalance,
	FieldInventory:          StatementBalance,
	FieldCash:               StatementBalance,

	FieldOperatingCashFlow: StatementCashflow,
	FieldFreeCashFlow:      StatementCashflow,
}

// StatementFor returns the statement kind a field belongs to, or false for
// an unrecognized field name.
func StatementFor(f Field) (StatementKind, bool) {
	k, ok := fieldStatements[f]
	return k, ok
}

// LineItem carries only the fields a caller explicitly requested. Unknown
// fields are absent from Values, not nil entries.
type LineItem struct {
	Ticker       string
	ReportPeriod string
	Period       string
	Currency     string
	Values       map[Field]*float64
}

// MarshalJSON flattens Values into the top-level object so a line item
// serializes the way downstream consumers expect:
// {"ticker":...,"report_period":...,"revenue":...}.
func (li LineItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(li.Values)+4)
	out["ticker"] = li.Ticker
	out["report_period"] = li.ReportPeriod
	out["period"] = li.Period
	out["currency"] = li.Currency
	for f, v := range li.Values {
		out[string(f)] = v
	}
	return json.Marshal(out)
}
