// Package cache holds canonical entities keyed by (ticker, entity kind).
//
// A hit means "any stored records exist for this ticker/kind" — there is no
// partial-range tracking, so a cache populated for one date window does not
// report coverage gaps for a disjoint window requested later. Range
// filtering happens in the facade, above this layer. Sets replace the
// stored record set wholesale; nothing is merged incrementally.
package cache

import (
	"context"

	"findata/internal/model"
)

// Gateway is the surface the data-access facade consumes. Insider trades
// and company news have no provider backing, so the facade only ever reads
// them; stores still expose setters for seeding.
//
// A failed read is indistinguishable from a miss: implementations return
// ok=false for both, prompting a provider fetch.
type Gateway interface {
	GetPrices(ctx context.Context, ticker string) ([]model.Price, bool)
	SetPrices(ctx context.Context, ticker string, prices []model.Price) error

	GetFinancialMetrics(ctx context.Context, ticker string) ([]model.FinancialMetrics, bool)
	SetFinancialMetrics(ctx context.Context, ticker string, metrics []model.FinancialMetrics) error

	GetInsiderTrades(ctx context.Context, ticker string) ([]model.InsiderTrade, bool)
	GetCompanyNews(ctx context.Context, ticker string) ([]model.CompanyNews, bool)
}
