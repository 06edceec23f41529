// Package dataaccess is the public surface of the financial-data layer: a
// read-through cache in front of one upstream provider.
//
// Per-call sequence: cache lookup, filter, return on any non-empty
// intersection; otherwise a fresh provider fetch, normalization, wholesale
// cache write, return. The provider is never consulted when the cache holds
// any record intersecting the filter, even if the intersecting subset is
// small compared to the request — stale-window reads are an accepted
// trade-off, see the cache package doc.
//
// All operations are synchronous and blocking. Concurrent cache-miss calls
// for the same ticker/kind may both fetch and race on the cache write; the
// last writer wins. Provider connections are not pooled: every miss path
// dials fresh and closes at the end of the call.
package dataaccess

import (
	"context"

	"github.com/sirupsen/logrus"

	"findata/internal/cache"
	"findata/internal/model"
	"findata/internal/normalize"
	"findata/internal/provider"
)

// Service orchestrates cache, provider and normalizer.
type Service struct {
	cache cache.Gateway
	dial  provider.Factory
	log   *logrus.Logger
}

// New builds a facade over an injected cache gateway and a provider
// factory. The factory is invoked once per miss-path call.
func New(gw cache.Gateway, dial provider.Factory, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{cache: gw, dial: dial, log: log}
}

// connect dials a fresh adapter and connects it. Callers must Close it.
func (s *Service) connect(ctx context.Context, ticker string) (provider.Adapter, error) {
	a := s.dial()
	if err := a.Connect(ctx); err != nil {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	return a, nil
}

// GetPrices returns daily bars for [startDate, endDate], ascending by date.
// An empty result on the provider path is a valid outcome, not an error.
func (s *Service) GetPrices(ctx context.Context, ticker, startDate, endDate string) ([]model.Price, error) {
	if cached, ok := s.cache.GetPrices(ctx, ticker); ok {
		if filtered := filterPrices(cached, startDate, endDate); len(filtered) > 0 {
			return filtered, nil
		}
	}

	a, err := s.connect(ctx, ticker)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	symbol := a.TranslateSymbol(ticker)
	rows, err := a.FetchPrices(ctx, symbol, startDate, endDate)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	if len(rows) == 0 {
		return []model.Price{}, nil
	}

	prices := normalize.Prices(rows)
	if err := s.cache.SetPrices(ctx, ticker, prices); err != nil {
		s.log.WithError(err).WithField("ticker", ticker).Warn("cache write failed for prices")
	}
	s.log.WithFields(logrus.Fields{"ticker": ticker, "provider": a.Name(), "rows": len(prices)}).Debug("fetched prices")
	return prices, nil
}

// GetFinancialMetrics returns at most limit metric records with
// report_period <= endDate, descending by report period.
func (s *Service) GetFinancialMetrics(ctx context.Context, ticker, endDate, period string, limit int) ([]model.FinancialMetrics, error) {
	if cached, ok := s.cache.GetFinancialMetrics(ctx, ticker); ok {
		if filtered := filterMetrics(cached, endDate, limit); len(filtered) > 0 {
			return filtered, nil
		}
	}

	a, err := s.connect(ctx, ticker)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	symbol := a.TranslateSymbol(ticker)
	snap, err := a.FetchSnapshot(ctx, symbol)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	if snap == nil {
		return []model.FinancialMetrics{}, nil
	}

	income, err := a.FetchStatement(ctx, symbol, model.StatementIncome)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	balance, err := a.FetchStatement(ctx, symbol, model.StatementBalance)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	cashflow, err := a.FetchStatement(ctx, symbol, model.StatementCashflow)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}

	metrics := normalize.FinancialMetrics(ticker, period, endDate, limit, snap, income, balance, cashflow)
	if len(metrics) == 0 {
		return []model.FinancialMetrics{}, nil
	}
	if err := s.cache.SetFinancialMetrics(ctx, ticker, metrics); err != nil {
		s.log.WithError(err).WithField("ticker", ticker).Warn("cache write failed for financial metrics")
	}
	s.log.WithFields(logrus.Fields{"ticker": ticker, "provider": a.Name(), "rows": len(metrics)}).Debug("fetched financial metrics")
	return metrics, nil
}

// SearchLineItems returns line items populated only with the requested
// fields, at most limit rows across all statement kinds combined. Only the
// statement kinds the requested fields map to are fetched. This path is
// uncached.
func (s *Service) SearchLineItems(ctx context.Context, ticker string, lineItems []string, endDate, period string, limit int) ([]model.LineItem, error) {
	fields := make([]model.Field, 0, len(lineItems))
	for _, name := range lineItems {
		f := model.Field(name)
		if _, ok := model.StatementFor(f); ok {
			fields = append(fields, f)
		}
	}

	a, err := s.connect(ctx, ticker)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	symbol := a.TranslateSymbol(ticker)
	statements := make(map[model.StatementKind][]provider.StatementRow)
	for _, kind := range normalize.RequiredStatements(fields) {
		rows, err := a.FetchStatement(ctx, symbol, kind)
		if err != nil {
			return nil, &FetchError{Ticker: ticker, Err: err}
		}
		statements[kind] = rows
	}

	currency := "USD"
	snap, err := a.FetchSnapshot(ctx, symbol)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	if snap != nil && snap.Currency != "" {
		currency = snap.Currency
	}

	return normalize.LineItems(ticker, period, currency, endDate, limit, fields, statements), nil
}

// GetInsiderTrades serves insider trades from the cache only: neither
// provider carries this data, so a cache miss is an empty result, never an
// error and never a provider call.
func (s *Service) GetInsiderTrades(ctx context.Context, ticker, endDate, startDate string, limit int) ([]model.InsiderTrade, error) {
	if cached, ok := s.cache.GetInsiderTrades(ctx, ticker); ok {
		if filtered := filterTrades(cached, startDate, endDate, limit); len(filtered) > 0 {
			return filtered, nil
		}
	}
	return []model.InsiderTrade{}, nil
}

// GetCompanyNews serves company news from the cache only; see
// GetInsiderTrades.
func (s *Service) GetCompanyNews(ctx context.Context, ticker, endDate, startDate string, limit int) ([]model.CompanyNews, error) {
	if cached, ok := s.cache.GetCompanyNews(ctx, ticker); ok {
		if filtered := filterNews(cached, startDate, endDate, limit); len(filtered) > 0 {
			return filtered, nil
		}
	}
	return []model.CompanyNews{}, nil
}

// GetMarketCap returns the market cap from the most recent metrics record
// at or before endDate, or nil when absent or zero.
func (s *Service) GetMarketCap(ctx context.Context, ticker, endDate string) (*float64, error) {
	metrics, err := s.GetFinancialMetrics(ctx, ticker, endDate, "ttm", 1)
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, nil
	}
	mc := metrics[0].MarketCap
	if mc == nil || *mc == 0 {
		return nil, nil
	}
	return mc, nil
}
