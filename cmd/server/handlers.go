package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"findata/internal/dataaccess"
)

func routes(svc *dataaccess.Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /v1/prices", handlePrices(svc))
	mux.HandleFunc("GET /v1/financial-metrics", handleFinancialMetrics(svc))
	mux.HandleFunc("GET /v1/line-items", handleLineItems(svc))
	mux.HandleFunc("GET /v1/insider-trades", handleInsiderTrades(svc))
	mux.HandleFunc("GET /v1/company-news", handleCompanyNews(svc))
	mux.HandleFunc("GET /v1/market-cap", handleMarketCap(svc))
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	var fe *dataaccess.FetchError
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": fe.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// requireParams pulls mandatory query parameters, writing a 400 and
// returning false when any is missing.
func requireParams(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		v := r.URL.Query().Get(name)
		if v == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing required parameter: " + name})
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	x, err := strconv.Atoi(v)
	if err != nil || x <= 0 {
		return def
	}
	return x
}

func stringParam(r *http.Request, name, def string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return def
}

func handlePrices(svc *dataaccess.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := requireParams(w, r, "ticker", "start_date", "end_date")
		if !ok {
			return
		}
		prices, err := svc.GetPrices(r.Context(), params[0], params[1], params[2])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"prices": prices})
	}
}

func handleFinancialMetrics(svc *dataaccess.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := requireParams(w, r, "ticker", "end_date")
		if !ok {
			return
		}
		metrics, err := svc.GetFinancialMetrics(r.Context(), params[0], params[1],
			stringParam(r, "period", "ttm"), intParam(r, "limit", 10))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"financial_metrics": metrics})
	}
}

func handleLineItems(svc *dataaccess.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := requireParams(w, r, "ticker", "line_items", "end_date")
		if !ok {
			return
		}
		items, err := svc.SearchLineItems(r.Context(), params[0], splitCSV(params[1]), params[2],
			stringParam(r, "period", "ttm"), intParam(r, "limit", 10))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"line_items": items})
	}
}

func handleInsiderTrades(svc *dataaccess.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := requireParams(w, r, "ticker", "end_date")
		if !ok {
			return
		}
		trades, err := svc.GetInsiderTrades(r.Context(), params[0], params[1],
			stringParam(r, "start_date", ""), intParam(r, "limit", 1000))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"insider_trades": trades})
	}
}

func handleCompanyNews(svc *dataaccess.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := requireParams(w, r, "ticker", "end_date")
		if !ok {
			return
		}
		news, err := svc.GetCompanyNews(r.Context(), params[0], params[1],
			stringParam(r, "start_date", ""), intParam(r, "limit", 1000))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"company_news": news})
	}
}

func handleMarketCap(svc *dataaccess.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := requireParams(w, r, "ticker", "end_date")
		if !ok {
			return
		}
		mc, err := svc.GetMarketCap(r.Context(), params[0], params[1])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"market_cap": mc})
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
