package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"findata/internal/cache"
	"findata/internal/config"
	"findata/internal/dataaccess"
	"findata/internal/httpx"
	"findata/internal/provider"
	"findata/internal/provider/findatasets"
	"findata/internal/provider/futu"
)

func main() {
	_ = godotenv.Load(".env", ".env.local")

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gw := cache.New(cfg.Cache.RedisURL, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	dial, err := newFactory(cfg, log)
	if err != nil {
		log.Fatalf("provider: %v", err)
	}
	svc := dataaccess.New(gw, dial, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("findata server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
}

// newFactory picks the configured provider. FinDatasets wins when enabled
// with a key; the Futu gateway is the default.
func newFactory(cfg config.Config, log *logrus.Logger) (provider.Factory, error) {
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
		}, nil
	}
	if cfg.FinDatasets.Enabled {
		log.Warn("findatasets.enabled=true but FINDATASETS_API_KEY not set; falling back to futu")
	}
	return func() provider.Adapter {
		return futu.New(futu.Config{Host: cfg.Futu.Host, Port: cfg.Futu.Port})
	}, nil
}
