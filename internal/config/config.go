package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Cache struct {
	RedisURL   string `json:"redis_url"`
	TTLSeconds int    `json:"ttl_sec"`
}

type FinDatasets struct {
	Enabled  bool   `json:"enabled"`
	APIKey   string `json:"api_key"`
	Endpoint string `json:"endpoint"`
}

type Futu struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

type Config struct {
	Server      Server      `json:"server"`
	Cache       Cache       `json:"cache"`
	FinDatasets FinDatasets `json:"findatasets"`
	Futu        Futu        `json:"futu"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		Cache:  Cache{RedisURL: "", TTLSeconds: 0},
		FinDatasets: FinDatasets{
			Enabled:  false,
			Endpoint: "https://api.findatasets.com",
		},
		Futu: Futu{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    11111,
		},
	}
}

// Load reads JSON config from path. If path is empty or the file does not
// exist, it returns defaults. Environment variables override select fields
// for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Server.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv("CACHE_TTL_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Cache.TTLSeconds = x
		}
	}
	if v := os.Getenv("FINDATASETS_ENABLED"); v != "" {
		cfg.FinDatasets.Enabled = parseBool(v, cfg.FinDatasets.Enabled)
	}
	if v := os.Getenv("FINDATASETS_API_KEY"); v != "" {
		cfg.FinDatasets.APIKey = v
	}
	if v := os.Getenv("FINDATASETS_ENDPOINT"); v != "" {
		cfg.FinDatasets.Endpoint = v
	}
	if v := os.Getenv("FUTU_ENABLED"); v != "" {
		cfg.Futu.Enabled = parseBool(v, cfg.Futu.Enabled)
	}
	if v := os.Getenv("FUTU_HOST"); v != "" {
		cfg.Futu.Host = v
	}
	if v := os.Getenv("FUTU_PORT"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Futu.Port = x
		}
	}
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	}
	return def
}
