// Package normalize maps neutral raw provider rows into canonical
// entities: cross-statement joins keyed on report date, derived ratios via
// the ratio engine, and line-item field scoping.
package normalize

import (
	"sort"

	"findata/internal/model"
	"findata/internal/provider"
	"findata/internal/ratio"
)

// Prices converts raw bars to canonical prices ordered ascending by date.
func Prices(rows []provider.PriceRow) []model.Price {
	out := make([]model.Price, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Price{
			Time:   r.Date,
			Open:   r.Open,
			Close:  r.Close,
			High:   r.High,
			Low:    r.Low,
			Volume: r.Volume,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// statementOrder fixes the iteration order across kinds so combined-limit
// truncation is deterministic.
var statementOrder = [...]model.StatementKind{
	model.StatementIncome,
	model.StatementBalance,
	model.StatementCashflow,
}

// RequiredStatements returns the statement kinds the requested fields map
// to. Unrecognized fields map to nothing.
func RequiredStatements(fields []model.Field) []model.StatementKind {
	need := make(map[model.StatementKind]bool, 3)
	for _, f := range fields {
		if kind, ok := model.StatementFor(f); ok {
			need[kind] = true
		}
	}
	out := make([]model.StatementKind, 0, len(need))
	for _, kind := range statementOrder {
		if need[kind] {
			out = append(out, kind)
		}
	}
	return out
}

func indexByDate(rows []provider.StatementRow) map[string]provider.StatementRow {
	byDate := make(map[string]provider.StatementRow, len(rows))
	for _, r := range rows {
		// at most one balance/cashflow row is expected per report date;
		// the first one wins if the upstream misbehaves
		if _, ok := byDate[r.ReportDate]; !ok {
			byDate[r.ReportDate] = r
		}
	}
	return byDate
}

// FinancialMetrics joins income rows with their same-dated balance and
// cashflow rows and derives the ratio set. A missing join partner yields
// nil for every field depending on it, never a failure.
//
// Snapshot ratios (P/E, P/B, EV multiples) are point-in-time and repeat
// identically on every historical row — a known limitation, they are not
// truly historical. Output is descending by report period, at most limit
// rows, all at or before endDate, one row per report period.
func FinancialMetrics(ticker, period, endDate string, limit int, snap *provider.Snapshot, income, balance, cashflow []provider.StatementRow) []model.FinancialMetrics {
	if snap == nil {
		return nil
	}
	currency := snap.Currency
	if currency == "" {
		currency = "USD"
	}

	balanceByDate := indexByDate(balance)
	cashflowByDate := indexByDate(cashflow)

	rows := append([]provider.StatementRow(nil), income...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].ReportDate > rows[j].ReportDate })

	out := make([]model.FinancialMetrics, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.ReportDate > endDate || seen[row.ReportDate] {
			continue
		}
		seen[row.ReportDate] = true

		// zero-value rows on a join miss: nil map lookups yield nil fields
		bal := balanceByDate[row.ReportDate]
		cf := cashflowByDate[row.ReportDate]

		out = append(out, model.FinancialMetrics{
			Ticker:       ticker,
			ReportPeriod: row.ReportDate,
			Period:       period,
			Currency:     currency,

			MarketCap:                     snap.MarketCap,
			EnterpriseValue:               snap.EnterpriseValue,
			PriceToEarningsRatio:          snap.PERatio,
			PriceToBookRatio:              snap.PBRatio,
			PriceToSalesRatio:             snap.PSRatio,
			EnterpriseValueToEBITDARatio:  snap.EVToEBITDA,
			EnterpriseValueToRevenueRatio: snap.EVToRevenue,
			FreeCashFlowYield:             ratio.SafeDivide(cf.Values[model.FieldFreeCashFlow], snap.MarketCap),
			PEGRatio:                      nil, // not supplied by either provider

			GrossMargin:     ratio.SafeDivide(row.Values[model.FieldGrossProfit], row.Values[model.FieldRevenue]),
			OperatingMargin: ratio.SafeDivide(row.Values[model.FieldOperatingIncome], row.Values[model.FieldRevenue]),
			NetMargin:       ratio.SafeDivide(row.Values[model.FieldNetIncome], row.Values[model.FieldRevenue]),

			ReturnOnEquity:          ratio.SafeDivide(row.Values[model.FieldNetIncome], bal.Values[model.FieldTotalEquity]),
			ReturnOnAssets:          ratio.SafeDivide(row.Values[model.FieldNetIncome], bal.Values[model.FieldTotalAssets]),
			ReturnOnInvestedCapital: nil,

			AssetTurnover:          ratio.SafeDivide(row.Values[model.FieldRevenue], bal.Values[model.FieldTotalAssets]),
			InventoryTurnover:      nil,
			ReceivablesTurnover:    nil,
			DaysSalesOutstanding:   nil,
			OperatingCycle:         nil,
			WorkingCapitalTurnover: nil,

			CurrentRatio: ratio.SafeDivide(bal.Values[model.FieldCurrentAssets], bal.Values[model.FieldCurrentLiabilities]),
			QuickRatio: ratio.SafeDivide(
				ratio.Sub(bal.Values[model.FieldCurrentAssets], bal.Values[model.FieldInventory]),
				bal.Values[model.FieldCurrentLiabilities],
			),
			CashRatio:              ratio.SafeDivide(bal.Values[model.FieldCash], bal.Values[model.FieldCurrentLiabilities]),
			OperatingCashFlowRatio: ratio.SafeDivide(cf.Values[model.FieldOperatingCashFlow], bal.Values[model.FieldCurrentLiabilities]),

			DebtToEquity:     ratio.SafeDivide(bal.Values[model.FieldTotalLiabilities], bal.Values[model.FieldTotalEquity]),
			DebtToAssets:     ratio.SafeDivide(bal.Values[model.FieldTotalLiabilities], bal.Values[model.FieldTotalAssets]),
			InterestCoverage: ratio.SafeDivide(row.Values[model.FieldEBITDA], row.Values[model.FieldInterestExpense]),

			PayoutRatio:          snap.DividendPayoutRatio,
			EarningsPerShare:     snap.EPS,
			BookValuePerShare:    snap.BookValuePerShare,
			FreeCashFlowPerShare: ratio.SafeDivide(cf.Values[model.FieldFreeCashFlow], snap.TotalShares),
		})

		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// LineItems emits one line item per raw row not newer than endDate,
// populated only with the requested fields that row actually carries.
// The limit applies across all statement kinds combined.
func LineItems(ticker, period, currency, endDate string, limit int, fields []model.Field, statements map[model.StatementKind][]provider.StatementRow) []model.LineItem {
	out := make([]model.LineItem, 0, limit)
	for _, kind := range statementOrder {
		rows, ok := statements[kind]
		if !ok {
			continue
		}
		for _, row := range rows {
			if row.ReportDate > endDate {
				continue
			}
			values := make(map[model.Field]*float64)
			for _, f := range fields {
				fieldKind, recognized := model.StatementFor(f)
				if !recognized || fieldKind != kind {
					continue
				}
				if v, present := row.Values[f]; present {
					values[f] = v
				}
			}
			out = append(out, model.LineItem{
				Ticker:       ticker,
				ReportPeriod: row.ReportDate,
				Period:       period,
				Currency:     currency,
				Values:       values,
			})
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}
