package dataaccess

import (
	"sort"

	"findata/internal/model"
)

// filterPrices keeps bars with start <= time <= end, ascending by date.
func filterPrices(prices []model.Price, start, end string) []model.Price {
	out := make([]model.Price, 0, len(prices))
	for _, p := range prices {
		if start <= p.Time && p.Time <= end {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// filterMetrics keeps records at or before end, descending by report
// period, truncated to limit.
func filterMetrics(metrics []model.FinancialMetrics, end string, limit int) []model.FinancialMetrics {
	out := make([]model.FinancialMetrics, 0, len(metrics))
	for _, m := range metrics {
		if m.ReportPeriod <= end {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportPeriod > out[j].ReportPeriod })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// filterTrades keeps trades whose effective date (transaction date, falling
// back to filing date) lies within [start, end], descending, truncated to
// limit. An empty start means no lower bound.
func filterTrades(trades []model.InsiderTrade, start, end string, limit int) []model.InsiderTrade {
	out := make([]model.InsiderTrade, 0, len(trades))
	for _, t := range trades {
		d := t.EffectiveDate()
		if (start == "" || d >= start) && d <= end {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EffectiveDate() > out[j].EffectiveDate() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// filterNews keeps items dated within [start, end], descending, truncated
// to limit. An empty start means no lower bound.
func filterNews(news []model.CompanyNews, start, end string, limit int) []model.CompanyNews {
	out := make([]model.CompanyNews, 0, len(news))
	for _, n := range news {
		if (start == "" || n.Date >= start) && n.Date <= end {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
