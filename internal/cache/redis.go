package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"findata/internal/model"
)

// RedisStore persists entities as JSON blobs keyed by "<kind>:<ticker>".
// Any failure to read or decode is reported as a miss.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at the given URL and verifies
// connectivity with a ping. ttl <= 0 stores entries without expiry.
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// New returns a Redis-backed gateway when the URL is set and reachable,
// falling back to an in-process store otherwise.
func New(redisURL string, ttl time.Duration) Gateway {
	if redisURL != "" {
		if store, err := NewRedisStore(redisURL, ttl); err == nil {
			return store
		}
	}
	return NewMemoryStore()
}

func (r *RedisStore) get(ctx context.Context, key string, out any) bool {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

func (r *RedisStore) set(ctx context.Context, key string, val any) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, b, r.ttl).Err()
}

func (r *RedisStore) GetPrices(ctx context.Context, ticker string) ([]model.Price, bool) {
	var out []model.Price
	if !r.get(ctx, "prices:"+ticker, &out) || len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (r *RedisStore) SetPrices(ctx context.Context, ticker string, prices []model.Price) error {
	return r.set(ctx, "prices:"+ticker, prices)
}

func (r *RedisStore) GetFinancialMetrics(ctx context.Context, ticker string) ([]model.FinancialMetrics, bool) {
	var out []model.FinancialMetrics
	if !r.get(ctx, "financial_metrics:"+ticker, &out) || len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (r *RedisStore) SetFinancialMetrics(ctx context.Context, ticker string, metrics []model.FinancialMetrics) error {
	return r.set(ctx, "financial_metrics:"+ticker, metrics)
}

func (r *RedisStore) GetInsiderTrades(ctx context.Context, ticker string) ([]model.InsiderTrade, bool) {
	var out []model.InsiderTrade
	if !r.get(ctx, "insider_trades:"+ticker, &out) || len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (r *RedisStore) SetInsiderTrades(ctx context.Context, ticker string, trades []model.InsiderTrade) error {
	return r.set(ctx, "insider_trades:"+ticker, trades)
}

func (r *RedisStore) GetCompanyNews(ctx context.Context, ticker string) ([]model.CompanyNews, bool) {
	var out []model.CompanyNews
	if !r.get(ctx, "company_news:"+ticker, &out) || len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (r *RedisStore) SetCompanyNews(ctx context.Context, ticker string, news []model.CompanyNews) error {
	return r.set(ctx, "company_news:"+ticker, news)
}
