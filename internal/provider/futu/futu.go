// Package futu speaks to a locally running OpenD-style gateway over a
// WebSocket JSON framing. The gateway owns the broker session; this adapter
// only issues synchronous request/response calls against it.
package futu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"findata/internal/provider"
)

// Config controls the gateway connection.
type Config struct {
	Name string // display name, default: Futu
	Host string // default: 127.0.0.1
	Port int    // default: 11111
	// URL overrides Host/Port with a full ws:// endpoint. Used by tests.
	URL string
}

// Provider implements the adapter contract against the gateway.
// Not safe for concurrent use: one request is in flight at a time.
type Provider struct {
	cfg Config

	mu   sync.Mutex
	conn *websocket.Conn
}

func New(cfg Config) *Provider {
	if cfg.Name == "" {
		cfg.Name = "Futu"
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 11111
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) Name() string { return p.cfg.Name }

// Connect dials the gateway. Fetches made before a successful Connect fail
// with ErrProviderUnavailable.
func (p *Provider) Connect(ctx context.Context) error {
	u := p.cfg.URL
	if u == "" {
		u = fmt.Sprintf("ws://%s:%d/", p.cfg.Host, p.cfg.Port)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("%w: dialing gateway %s: %v", provider.ErrProviderUnavailable, u, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()
	return nil
}

// Close releases the gateway connection. Safe to call multiple times.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	return nil
}

// marketPrefixes are the namespaces the gateway recognizes.
var marketPrefixes = [...]string{"US.", "HK.", "SH.", "SZ."}

// TranslateSymbol prefixes bare tickers with the US market namespace.
// Already-namespaced symbols pass through, so translation is idempotent.
func (p *Provider) TranslateSymbol(ticker string) string {
	s := strings.TrimSpace(ticker)
	for _, prefix := range marketPrefixes {
		if strings.HasPrefix(s, prefix) {
			return s
		}
	}
	return "US." + s
}

type request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

type response struct {
	ID      string          `json:"id"`
	RetCode int             `json:"ret_code"`
	RetMsg  string          `json:"ret_msg"`
	Data    json.RawMessage `json:"data"`
}

// call issues one request and blocks until its response arrives. Push
// frames the gateway interleaves (quote subscriptions from other clients)
// carry no matching id and are skipped. No deadline is applied: a hung
// gateway hangs the caller.
func (p *Provider) call(method string, params any, out any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return fmt.Errorf("%w: not connected", provider.ErrProviderUnavailable)
	}

	id := uuid.NewString()
	if err := p.conn.WriteJSON(request{ID: id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("%w: writing %s: %v", provider.ErrProviderUnavailable, method, err)
	}
	for {
		var resp response
		if err := p.conn.ReadJSON(&resp); err != nil {
			return fmt.Errorf("%w: reading %s: %v", provider.ErrProviderUnavailable, method, err)
		}
		if resp.ID != id {
			continue
		}
		if resp.RetCode != 0 {
			return fmt.Errorf("gateway %s: ret=%d msg=%q", method, resp.RetCode, resp.RetMsg)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", method, err)
		}
		return nil
	}
}
