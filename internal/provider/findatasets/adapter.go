package findatasets

import (
	"context"
	"fmt"
	"strings"

	"findata/internal/model"
	"findata/internal/provider"
)

// Config controls the FinDatasets adapter.
type Config struct {
	Name   string // display name, default: FinDatasets
	APIKey string
}

// Adapter exposes the FinDatasets REST API behind the provider contract.
type Adapter struct {
	cfg       Config
	client    *Client
	connected bool
}

func New(cfg Config, client *Client) *Adapter {
	if cfg.Name == "" {
		cfg.Name = "FinDatasets"
	}
	return &Adapter{cfg: cfg, client: client}
}

func (a *Adapter) Name() string { return a.cfg.Name }

// Connect validates that the adapter is usable. The REST upstream is
// sessionless, so this only checks credentials are present.
func (a *Adapter) Connect(_ context.Context) error {
	if a.client == nil || a.cfg.APIKey == "" {
		return fmt.Errorf("%w: missing API key", provider.ErrProviderUnavailable)
	}
	a.connected = true
	return nil
}

// Close is safe to call multiple times.
func (a *Adapter) Close() error {
	a.connected = false
	return nil
}

// TranslateSymbol strips a US market prefix: the vendor indexes US listings
// by bare ticker. Stripping is idempotent.
func (a *Adapter) TranslateSymbol(ticker string) string {
	s := strings.ToUpper(strings.TrimSpace(ticker))
	return strings.TrimPrefix(s, "US.")
}

func (a *Adapter) FetchPrices(ctx context.Context, symbol, start, end string) ([]provider.PriceRow, error) {
	if !a.connected {
		return nil, fmt.Errorf("%w: fetch before connect", provider.ErrProviderUnavailable)
	}
	return a.client.GetPrices(ctx, symbol, start, end)
}

func (a *Adapter) FetchStatement(ctx context.Context, symbol string, kind model.StatementKind) ([]provider.StatementRow, error) {
	if !a.connected {
		return nil, fmt.Errorf("%w: fetch before connect", provider.ErrProviderUnavailable)
	}
	return a.client.GetStatements(ctx, symbol, kind)
}

func (a *Adapter) FetchSnapshot(ctx context.Context, symbol string) (*provider.Snapshot, error) {
	if !a.connected {
		return nil, fmt.Errorf("%w: fetch before connect", provider.ErrProviderUnavailable)
	}
	return a.client.GetSnapshot(ctx, symbol)
}
