package dataaccess_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"findata/internal/cache"
	"findata/internal/dataaccess"
	"findata/internal/model"
	"findata/internal/provider"
)

func f(v float64) *float64 { return &v }

// fakeAdapter is a scriptable in-memory provider. It records which
// statement kinds were fetched and how often the facade dialed/closed it.
type fakeAdapter struct {
	connectErr error
	prices     []provider.PriceRow
	snapshot   *provider.Snapshot
	statements map[model.StatementKind][]provider.StatementRow

	connects     int
	closes       int
	fetchedKinds []model.StatementKind
	lastSymbol   string
}

func (a *fakeAdapter) Name() string { return "fake" }

func (a *fakeAdapter) Connect(context.Context) error {
	a.connects++
	return a.connectErr
}

func (a *fakeAdapter) Close() error {
	a.closes++
	return nil
}

func (a *fakeAdapter) TranslateSymbol(ticker string) string { return ticker }

func (a *fakeAdapter) FetchPrices(_ context.Context, symbol, _, _ string) ([]provider.PriceRow, error) {
	a.lastSymbol = symbol
	return a.prices, nil
}

func (a *fakeAdapter) FetchStatement(_ context.Context, symbol string, kind model.StatementKind) ([]provider.StatementRow, error) {
	a.lastSymbol = symbol
	a.fetchedKinds = append(a.fetchedKinds, kind)
	return a.statements[kind], nil
}

func (a *fakeAdapter) FetchSnapshot(_ context.Context, symbol string) (*provider.Snapshot, error) {
	a.lastSymbol = symbol
	return a.snapshot, nil
}

// factoryOf dials the same fake every time, counting invocations.
func factoryOf(a *fakeAdapter, dials *int) provider.Factory {
	return func() provider.Adapter {
		*dials++
		return a
	}
}

// panicFactory fails the test if the facade dials at all.
func panicFactory(t *testing.T) provider.Factory {
	return func() provider.Adapter {
		t.Fatal("provider dialed despite cached data")
		return nil
	}
}

func TestGetPrices_CacheHitSkipsProvider(t *testing.T) {
	t.Parallel()

	store := cache.NewMemoryStore()
	require.NoError(t, store.SetPrices(t.Context(), "AAPL", []model.Price{
		{Time: "2024-01-02", Close: 185.64},
		{Time: "2024-01-03", Close: 184.25},
		{Time: "2024-02-01", Close: 188.00},
	}))

	svc := dataaccess.New(store, panicFactory(t), nil)

	got, err := svc.GetPrices(t.Context(), "AAPL", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "2024-01-02", got[0].Time)
	require.Equal(t, "2024-01-03", got[1].Time)
}

func TestGetPrices_PartialOverlapStillSkipsProvider(t *testing.T) {
	t.Parallel()

	// only one cached bar intersects the requested window, yet no fetch
	// happens: any overlap counts as a hit
	store := cache.NewMemoryStore()
	require.NoError(t, store.SetPrices(t.Context(), "AAPL", []model.Price{
		{Time: "2024-01-31", Close: 184.40},
	}))

	svc := dataaccess.New(store, panicFactory(t), nil)

	got, err := svc.GetPrices(t.Context(), "AAPL", "2024-01-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestGetPrices_MissFetchesAndPopulatesCache(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{prices: []provider.PriceRow{
		{Date: "2024-01-03", Close: 184.25},
		{Date: "2024-01-02", Close: 185.64},
	}}
	dials := 0
	store := cache.NewMemoryStore()
	svc := dataaccess.New(store, factoryOf(adapter, &dials), nil)

	got, err := svc.GetPrices(t.Context(), "AAPL", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "2024-01-02", got[0].Time)
	require.Equal(t, 1, dials)
	require.Equal(t, 1, adapter.closes)

	// the second identical call is served from cache
	got, err = svc.GetPrices(t.Context(), "AAPL", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 1, dials)
}

func TestGetPrices_EmptyProviderResultIsNotCached(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{}
	dials := 0
	svc := dataaccess.New(cache.NewMemoryStore(), factoryOf(adapter, &dials), nil)

	got, err := svc.GetPrices(t.Context(), "ZZZZ", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Empty(t, got)

	// the empty result was not written, so the next call fetches again
	_, err = svc.GetPrices(t.Context(), "ZZZZ", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Equal(t, 2, dials)
}

func TestGetPrices_ConnectFailureIsFetchError(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{connectErr: provider.ErrProviderUnavailable}
	dials := 0
	svc := dataaccess.New(cache.NewMemoryStore(), factoryOf(adapter, &dials), nil)

	_, err := svc.GetPrices(t.Context(), "AAPL", "2024-01-01", "2024-01-31")
	require.Error(t, err)
	require.ErrorIs(t, err, provider.ErrProviderUnavailable)

	var fe *dataaccess.FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "AAPL", fe.Ticker)
}

func TestGetFinancialMetrics_MissFetchesAllThreeStatements(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{
		snapshot: &provider.Snapshot{Currency: "USD", MarketCap: f(1000)},
		statements: map[model.StatementKind][]provider.StatementRow{
			model.StatementIncome: {
				{ReportDate: "2024-03-31", Values: map[model.Field]*float64{
					model.FieldRevenue:     f(200),
					model.FieldGrossProfit: f(80),
				}},
			},
		},
	}
	dials := 0
	store := cache.NewMemoryStore()
	svc := dataaccess.New(store, factoryOf(adapter, &dials), nil)

	got, err := svc.GetFinancialMetrics(t.Context(), "AAPL", "2024-12-31", "ttm", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InEpsilon(t, 0.4, *got[0].GrossMargin, 0.0001)
	require.Equal(t, []model.StatementKind{
		model.StatementIncome,
		model.StatementBalance,
		model.StatementCashflow,
	}, adapter.fetchedKinds)

	// cache now holds the records
	cached, ok := store.GetFinancialMetrics(t.Context(), "AAPL")
	require.True(t, ok)
	require.Len(t, cached, 1)

	_, err = svc.GetFinancialMetrics(t.Context(), "AAPL", "2024-12-31", "ttm", 10)
	require.NoError(t, err)
	require.Equal(t, 1, dials)
}

func TestGetFinancialMetrics_NilSnapshotIsEmptyResult(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{snapshot: nil}
	dials := 0
	svc := dataaccess.New(cache.NewMemoryStore(), factoryOf(adapter, &dials), nil)

	got, err := svc.GetFinancialMetrics(t.Context(), "ZZZZ", "2024-12-31", "ttm", 10)
	require.NoError(t, err)
	require.Empty(t, got)

	// no statements fetched for an unknown symbol
	require.Empty(t, adapter.fetchedKinds)
}

func TestSearchLineItems_FetchesOnlyRequiredKinds(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{
		snapshot: &provider.Snapshot{Currency: "USD"},
		statements: map[model.StatementKind][]provider.StatementRow{
			model.StatementIncome: {
				{ReportDate: "2024-03-31", Values: map[model.Field]*float64{
					model.FieldRevenue:   f(200),
					model.FieldNetIncome: f(40),
				}},
			},
		},
	}
	dials := 0
	svc := dataaccess.New(cache.NewMemoryStore(), factoryOf(adapter, &dials), nil)

	got, err := svc.SearchLineItems(t.Context(), "AAPL", []string{"revenue", "net_income", "not_a_field"}, "2024-12-31", "ttm", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InEpsilon(t, 200.0, *got[0].Values[model.FieldRevenue], 0.0001)
	require.Equal(t, "USD", got[0].Currency)

	// income-only fields never pull balance or cashflow
	require.Equal(t, []model.StatementKind{model.StatementIncome}, adapter.fetchedKinds)

	// the unrecognized name is silently dropped
	_, present := got[0].Values[model.Field("not_a_field")]
	require.False(t, present)
}

func TestSearchLineItems_Uncached(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{
		snapshot: &provider.Snapshot{Currency: "USD"},
		statements: map[model.StatementKind][]provider.StatementRow{
			model.StatementIncome: {
				{ReportDate: "2024-03-31", Values: map[model.Field]*float64{model.FieldRevenue: f(200)}},
			},
		},
	}
	dials := 0
	svc := dataaccess.New(cache.NewMemoryStore(), factoryOf(adapter, &dials), nil)

	for range 2 {
		_, err := svc.SearchLineItems(t.Context(), "AAPL", []string{"revenue"}, "2024-12-31", "ttm", 10)
		require.NoError(t, err)
	}
	require.Equal(t, 2, dials)
}

func TestGetInsiderTrades_CacheOnly(t *testing.T) {
	t.Parallel()

	store := cache.NewMemoryStore()
	txDate := "2024-05-03"
	require.NoError(t, store.SetInsiderTrades(t.Context(), "AAPL", []model.InsiderTrade{
		{Ticker: "AAPL", TransactionDate: &txDate, FilingDate: "2024-05-06"},
		{Ticker: "AAPL", FilingDate: "2024-04-10"}, // sorts by filing date fallback
		{Ticker: "AAPL", FilingDate: "2023-01-05"}, // outside the window
	}))

	svc := dataaccess.New(store, panicFactory(t), nil)

	got, err := svc.GetInsiderTrades(t.Context(), "AAPL", "2024-12-31", "2024-01-01", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "2024-05-03", got[0].EffectiveDate())
	require.Equal(t, "2024-04-10", got[1].EffectiveDate())

	// a miss is an empty result, never a provider call or an error
	got, err = svc.GetInsiderTrades(t.Context(), "MSFT", "2024-12-31", "", 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGetCompanyNews_CacheOnly(t *testing.T) {
	t.Parallel()

	store := cache.NewMemoryStore()
	require.NoError(t, store.SetCompanyNews(t.Context(), "AAPL", []model.CompanyNews{
		{Ticker: "AAPL", Title: "supplier update", Date: "2024-03-01"},
		{Ticker: "AAPL", Title: "earnings call", Date: "2024-05-02"},
	}))

	svc := dataaccess.New(store, panicFactory(t), nil)

	got, err := svc.GetCompanyNews(t.Context(), "AAPL", "2024-12-31", "", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "earnings call", got[0].Title)

	got, err = svc.GetCompanyNews(t.Context(), "MSFT", "2024-12-31", "", 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGetMarketCap(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{
		snapshot: &provider.Snapshot{Currency: "USD", MarketCap: f(2.8e12)},
		statements: map[model.StatementKind][]provider.StatementRow{
			model.StatementIncome: {
				{ReportDate: "2024-03-31", Values: map[model.Field]*float64{model.FieldRevenue: f(200)}},
			},
		},
	}
	dials := 0
	svc := dataaccess.New(cache.NewMemoryStore(), factoryOf(adapter, &dials), nil)

	mc, err := svc.GetMarketCap(t.Context(), "AAPL", "2024-12-31")
	require.NoError(t, err)
	require.NotNil(t, mc)
	require.InEpsilon(t, 2.8e12, *mc, 0.0001)
}

func TestGetMarketCap_AbsentOrZeroIsNil(t *testing.T) {
	t.Parallel()

	// zero market cap reads as absent
	adapter := &fakeAdapter{
		snapshot: &provider.Snapshot{Currency: "USD", MarketCap: f(0)},
		statements: map[model.StatementKind][]provider.StatementRow{
			model.StatementIncome: {
				{ReportDate: "2024-03-31", Values: map[model.Field]*float64{model.FieldRevenue: f(200)}},
			},
		},
	}
	dials := 0
	svc := dataaccess.New(cache.NewMemoryStore(), factoryOf(adapter, &dials), nil)

	mc, err := svc.GetMarketCap(t.Context(), "AAPL", "2024-12-31")
	require.NoError(t, err)
	require.Nil(t, mc)

	// unknown symbol: empty metrics, still nil and no error
	unknown := &fakeAdapter{snapshot: nil}
	svc = dataaccess.New(cache.NewMemoryStore(), factoryOf(unknown, &dials), nil)
	mc, err = svc.GetMarketCap(t.Context(), "ZZZZ", "2024-12-31")
	require.NoError(t, err)
	require.Nil(t, mc)
}
