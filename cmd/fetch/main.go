package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"findata/internal/cache"
	"findata/internal/config"
	"findata/internal/dataaccess"
	"findata/internal/httpx"
	"findata/internal/provider"
	"findata/internal/provider/findatasets"
	"findata/internal/provider/futu"
)

func main() {
	var tickersCSV string
	var entity string
	var startDate string
	var endDate string
	var period string
	var limit int
	var lineItemsCSV string
	var configPath string

	flag.StringVar(&tickersCSV, "tickers", getenv("TICKERS", "AAPL"), "comma-separated tickers")
	flag.StringVar(&entity, "entity", "prices", "one of: prices, metrics, line-items, insider-trades, news, market-cap")
	flag.StringVar(&startDate, "start", "", "start date YYYY-MM-DD (prices, insider-trades, news)")
	flag.StringVar(&endDate, "end", time.Now().UTC().Format("2006-01-02"), "end date YYYY-MM-DD")
	flag.StringVar(&period, "period", "ttm", "period tag for metrics/line items")
	flag.IntVar(&limit, "limit", 10, "maximum records per ticker")
	flag.StringVar(&lineItemsCSV, "line-items", "revenue,net_income", "comma-separated line item names")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
	flag.Parse()

	_ = godotenv.Load(".env", ".env.local")

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	tickers := splitCSV(tickersCSV)
	if len(tickers) == 0 {
		log.Fatal("no tickers provided")
	}

	gw := cache.New(cfg.Cache.RedisURL, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	svc := dataaccess.New(gw, newFactory(cfg, log), log)

	ctx := context.Background()

	var mu sync.Mutex
	results := make(map[string]any, len(tickers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, ticker := range tickers {
		g.Go(func() error {
			out, err := fetchOne(ctx, svc, entity, ticker, startDate, endDate, period, limit, splitCSV(lineItemsCSV))
			if err != nil {
				return err
			}
			mu.Lock()
			results[ticker] = out
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("fetch: %v", err)
	}

	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(b))
}

func fetchOne(ctx context.Context, svc *dataaccess.Service, entity, ticker, start, end, period string, limit int, lineItems []string) (any, error) {
	switch entity {
	case "prices":
		if start == "" {
			return nil, fmt.Errorf("prices require -start")
		}
		return svc.GetPrices(ctx, ticker, start, end)
	case "metrics":
		return svc.GetFinancialMetrics(ctx, ticker, end, period, limit)
	case "line-items":
		return svc.SearchLineItems(ctx, ticker, lineItems, end, period, limit)
	case "insider-trades":
		return svc.GetInsiderTrades(ctx, ticker, end, start, limit)
	case "news":
		return svc.GetCompanyNews(ctx, ticker, end, start, limit)
	case "market-cap":
		return svc.GetMarketCap(ctx, ticker, end)
	default:
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
}

func newFactory(cfg config.Config, log *logrus.Logger) provider.Factory {
	if cfg.FinDatasets.Enabled && cfg.FinDatasets.APIKey != "" {
		httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
		return func() provider.Adapter {
			client, err := findatasets.NewClient(
				cfg.FinDatasets.APIKey,
				findatasets.WithBaseURL(cfg.FinDatasets.Endpoint),
				findatasets.WithHTTPClient(httpClient.HTTP),
			)
			if err != nil {
				log.Errorf("findatasets client: %v", err)
			}
			return findatasets.New(findatasets.Config{APIKey: cfg.FinDatasets.APIKey}, client)
		}
	}
	return func() provider.Adapter {
		return futu.New(futu.Config{Host: cfg.Futu.Host, Port: cfg.Futu.Port})
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
