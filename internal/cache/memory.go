package cache

import (
	"context"
	"sync"

	"findata/internal/model"
)

// MemoryStore keeps everything in process memory. Zero value is not usable;
// construct with NewMemoryStore.
type MemoryStore struct {
	mu      sync.RWMutex
	prices  map[string][]model.Price
	metrics map[string][]model.FinancialMetrics
	trades  map[string][]model.InsiderTrade
	news    map[string][]model.CompanyNews
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prices:  make(map[string][]model.Price),
		metrics: make(map[string][]model.FinancialMetrics),
		trades:  make(map[string][]model.InsiderTrade),
		news:    make(map[string][]model.CompanyNews),
	}
}

func (m *MemoryStore) GetPrices(_ context.Context, ticker string) ([]model.Price, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.prices[ticker]
	if !ok || len(stored) == 0 {
		return nil, false
	}
	out := make([]model.Price, len(stored))
	copy(out, stored)
	return out, true
}

func (m *MemoryStore) SetPrices(_ context.Context, ticker string, prices []model.Price) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[ticker] = append([]model.Price(nil), prices...)
	return nil
}

func (m *MemoryStore) GetFinancialMetrics(_ context.Context, ticker string) ([]model.FinancialMetrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.metrics[ticker]
	if !ok || len(stored) == 0 {
		return nil, false
	}
	out := make([]model.FinancialMetrics, len(stored))
	copy(out, stored)
	return out, true
}

func (m *MemoryStore) SetFinancialMetrics(_ context.Context, ticker string, metrics []model.FinancialMetrics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics[ticker] = append([]model.FinancialMetrics(nil), metrics...)
	return nil
}

func (m *MemoryStore) GetInsiderTrades(_ context.Context, ticker string) ([]model.InsiderTrade, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.trades[ticker]
	if !ok || len(stored) == 0 {
		return nil, false
	}
	out := make([]model.InsiderTrade, len(stored))
	copy(out, stored)
	return out, true
}

func (m *MemoryStore) SetInsiderTrades(_ context.Context, ticker string, trades []model.InsiderTrade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades[ticker] = append([]model.InsiderTrade(nil), trades...)
	return nil
}

func (m *MemoryStore) GetCompanyNews(_ context.Context, ticker string) ([]model.CompanyNews, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.news[ticker]
	if !ok || len(stored) == 0 {
		return nil, false
	}
	out := make([]model.CompanyNews, len(stored))
	copy(out, stored)
	return out, true
}

func (m *MemoryStore) SetCompanyNews(_ context.Context, ticker string, news []model.CompanyNews) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.news[ticker] = append([]model.CompanyNews(nil), news...)
	return nil
}
