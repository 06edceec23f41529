package provider

import (
	"context"
	"errors"

	"findata/internal/model"
)

// ErrProviderUnavailable reports that the upstream cannot be reached or
// that a fetch was attempted before a successful Connect.
var ErrProviderUnavailable = errors.New("provider unavailable")

// PriceRow is one raw daily bar in the neutral shape shared by all
// providers. Each adapter decodes its own wire schema into this; no
// provider-specific field name crosses this boundary.
type PriceRow struct {
	Date   string
	Open   float64
	Close  float64
	High   float64
	Low    float64
	Volume int64
}

// StatementRow is one raw financial-statement row keyed by report date.
// Values holds only the recognized fields the provider actually returned.
type StatementRow struct {
	ReportDate string
	Values     map[model.Field]*float64
}

// Snapshot is a single point-in-time market-data row: currency, market cap
// and the trailing ratios that are not period-specific.
type Snapshot struct {
	Currency            string
	MarketCap           *float64
	EnterpriseValue     *float64
	PERatio             *float64
	PBRatio             *float64
	PSRatio             *float64
	EVToEBITDA          *float64
	EVToRevenue         *float64
	DividendPayoutRatio *float64
	EPS                 *float64
	BookValuePerShare   *float64
	TotalShares         *float64
}

// Adapter is the upstream provider contract. Implementations differ only in
// transport and raw schema.
//
// Lifecycle: every fetch fails fast with ErrProviderUnavailable unless a
// Connect succeeded first; Close releases resources and is safe to call
// multiple times.
type Adapter interface {
	Name() string

	Connect(ctx context.Context) error
	Close() error

	// TranslateSymbol maps the facade's bare ticker to the provider's
	// namespaced form. Idempotent: translating twice never double-prefixes.
	TranslateSymbol(ticker string) string

	// FetchPrices returns raw daily bars within [start, end], or an empty
	// slice when the provider has no data for the range.
	FetchPrices(ctx context.Context, symbol, start, end string) ([]PriceRow, error)

	// FetchStatement returns raw rows of one statement kind keyed by
	// report date.
	FetchStatement(ctx context.Context, symbol string, kind model.StatementKind) ([]StatementRow, error)

	// FetchSnapshot returns the provider's current market snapshot for the
	// symbol, or nil when the symbol is unknown upstream.
	FetchSnapshot(ctx context.Context, symbol string) (*Snapshot, error)
}

// Factory opens a fresh adapter. The facade dials per call: connections are
// not pooled, each request pays its own connect/close.
type Factory func() Adapter
