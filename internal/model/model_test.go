package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"findata/internal/model"
)

func TestStatementFor(t *testing.T) {
	t.Parallel()

	kind, ok := model.StatementFor(model.FieldRevenue)
	require.True(t, ok)
	require.Equal(t, model.StatementIncome, kind)

	kind, ok = model.StatementFor(model.FieldInventory)
	require.True(t, ok)
	require.Equal(t, model.StatementBalance, kind)

	_, ok = model.StatementFor(model.Field("not_a_field"))
	require.False(t, ok)
}

func TestLineItemMarshalJSON_FlattensValues(t *testing.T) {
	t.Parallel()

	revenue := 200.0
	li := model.LineItem{
		Ticker:       "AAPL",
		ReportPeriod: "2024-03-31",
		Period:       "ttm",
		Currency:     "USD",
		Values:       map[model.Field]*float64{model.FieldRevenue: &revenue},
	}

	b, err := json.Marshal(li)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, "AAPL", out["ticker"])
	require.Equal(t, "2024-03-31", out["report_period"])
	require.InEpsilon(t, 200.0, out["revenue"], 0.0001)

	// unrequested fields are absent, not null
	_, present := out["net_income"]
	require.False(t, present)
}

func TestInsiderTradeEffectiveDate(t *testing.T) {
	t.Parallel()

	txDate := "2024-05-03"
	withTx := model.InsiderTrade{TransactionDate: &txDate, FilingDate: "2024-05-06"}
	require.Equal(t, "2024-05-03", withTx.EffectiveDate())

	empty := ""
	withoutTx := model.InsiderTrade{TransactionDate: &empty, FilingDate: "2024-05-06"}
	require.Equal(t, "2024-05-06", withoutTx.EffectiveDate())

	nilTx := model.InsiderTrade{FilingDate: "2024-05-06"}
	require.Equal(t, "2024-05-06", nilTx.EffectiveDate())
}
