package futu

import (
	"context"

	"findata/internal/model"
	"findata/internal/provider"
)

type klineRow struct {
	TimeKey string  `json:"time_key"` // "2024-01-02 00:00:00"
	Open    float64 `json:"open"`
	Close   float64 `json:"close"`
	High    float64 `json:"high"`
	Low     float64 `json:"low"`
	Volume  int64   `json:"volume"`
}

type klineData struct {
	KlineList []klineRow `json:"kline_list"`
}

// FetchPrices requests daily klines. The gateway's time_key carries a
// timestamp; only the date part survives normalization.
func (p *Provider) FetchPrices(_ context.Context, symbol, start, end string) ([]provider.PriceRow, error) {
	params := map[string]any{
		"code":      symbol,
		"start":     start,
		"end":       end,
		"ktype":     "K_DAY",
		"max_count": 1000,
	}
	var data klineData
	if err := p.call("request_history_kline", params, &data); err != nil {
		return nil, err
	}

	rows := make([]provider.PriceRow, 0, len(data.KlineList))
	for _, k := range data.KlineList {
		date := k.TimeKey
		if len(date) > 10 {
			date = date[:10]
		}
		rows = append(rows, provider.PriceRow{
			Date:   date,
			Open:   k.Open,
			Close:  k.Close,
			High:   k.High,
			Low:    k.Low,
			Volume: k.Volume,
		})
	}
	return rows, nil
}

// financialRow covers the union of the gateway's statement field names.
type financialRow struct {
	ReportDate string `json:"report_date"`

	TotalRevenue    *float64 `json:"total_revenue"`
	GrossProfit     *float64 `json:"gross_profit"`
	OperateProfit   *float64 `json:"operate_profit"`
	NetProfit       *float64 `json:"net_profit"`
	EBITDA          *float64 `json:"ebitda"`
	InterestExpense *float64 `json:"interest_expense"`

	TotalAsset           *float64 `json:"total_asset"`
	TotalLiability       *float64 `json:"total_liability"`
	TotalEquity          *float64 `json:"total_equity"`
	CurrentAsset         *float64 `json:"current_asset"`
	CurrentLiability     *float64 `json:"current_liability"`
	Inventory            *float64 `json:"inventory"`
	CashAndCashEquiv     *float64 `json:"cash_and_cash_equivalent"`
	NetOperateCashFlow   *float64 `json:"net_operate_cash_flow"`
	FreeCashFlow         *float64 `json:"free_cash_flow"`
}

type financialData struct {
	FinancialList []financialRow `json:"financial_list"`
}

// FetchStatement requests one statement kind's rows keyed by report date.
func (p *Provider) FetchStatement(_ context.Context, symbol string, kind model.StatementKind) ([]provider.StatementRow, error) {
	params := map[string]any{
		"code":           symbol,
		"financial_type": string(kind),
	}
	var data financialData
	if err := p.call("get_financial_data", params, &data); err != nil {
		return nil, err
	}

	rows := make([]provider.StatementRow, 0, len(data.FinancialList))
	for _, f := range data.FinancialList {
		values := make(map[model.Field]*float64)
		put(values, model.FieldRevenue, f.TotalRevenue)
		put(values, model.FieldGrossProfit, f.GrossProfit)
		put(values, model.FieldOperatingIncome, f.OperateProfit)
		put(values, model.FieldNetIncome, f.NetProfit)
		put(values, model.FieldEBITDA, f.EBITDA)
		put(values, model.FieldInterestExpense, f.InterestExpense)
		put(values, model.FieldTotalAssets, f.TotalAsset)
		put(values, model.FieldTotalLiabilities, f.TotalLiability)
		put(values, model.FieldTotalEquity, f.TotalEquity)
		put(values, model.FieldCurrentAssets, f.CurrentAsset)
		put(values, model.FieldCurrentLiabilities, f.CurrentLiability)
		put(values, model.FieldInventory, f.Inventory)
		put(values, model.FieldCash, f.CashAndCashEquiv)
		put(values, model.FieldOperatingCashFlow, f.NetOperateCashFlow)
		put(values, model.FieldFreeCashFlow, f.FreeCashFlow)
		rows = append(rows, provider.StatementRow{ReportDate: f.ReportDate, Values: values})
	}
	return rows, nil
}

func put(values map[model.Field]*float64, f model.Field, v *float64) {
	if v != nil {
		values[f] = v
	}
}

type snapshotRow struct {
	Currency            string   `json:"currency"`
	MarketVal           *float64 `json:"market_val"`
	TotalEnterpriseVal  *float64 `json:"total_enterprise_value"`
	PERatio             *float64 `json:"pe_ratio"`
	PBRatio             *float64 `json:"pb_ratio"`
	PSRatio             *float64 `json:"ps_ratio"`
	EVToEBITDA          *float64 `json:"ev_ebitda"`
	EVToRevenue         *float64 `json:"ev_revenue"`
	DividendPayoutRatio *float64 `json:"dividend_payout_ratio"`
	EPS                 *float64 `json:"eps"`
	NetAssetPerShare    *float64 `json:"net_asset_per_share"`
	TotalShares         *float64 `json:"total_shares"`
}

type snapshotData struct {
	SnapshotList []snapshotRow `json:"snapshot_list"`
}

// FetchSnapshot requests the current market snapshot. An empty snapshot
// list means the symbol is unknown to the gateway.
func (p *Provider) FetchSnapshot(_ context.Context, symbol string) (*provider.Snapshot, error) {
	params := map[string]any{
		"code_list": []string{symbol},
	}
	var data snapshotData
	if err := p.call("get_market_snapshot", params, &data); err != nil {
		return nil, err
	}
	if len(data.SnapshotList) == 0 {
		return nil, nil
	}

	s := data.SnapshotList[0]
	return &provider.Snapshot{
		Currency:            s.Currency,
		MarketCap:           s.MarketVal,
		EnterpriseValue:     s.TotalEnterpriseVal,
		PERatio:             s.PERatio,
		PBRatio:             s.PBRatio,
		PSRatio:             s.PSRatio,
		EVToEBITDA:          s.EVToEBITDA,
		EVToRevenue:         s.EVToRevenue,
		DividendPayoutRatio: s.DividendPayoutRatio,
		EPS:                 s.EPS,
		BookValuePerShare:   s.NetAssetPerShare,
		TotalShares:         s.TotalShares,
	}, nil
}
