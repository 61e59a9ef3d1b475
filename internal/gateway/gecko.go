package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"TrendSentinel/internal/model"
)

const acceptHeader = "application/json; version=20230302"

// GeckoFetcher implements Fetcher using the GeckoTerminal REST API.
// Upstream calls go through a shared rate limiter and a circuit breaker so a
// flapping API degrades to empty cycles instead of hammering the endpoint.
type GeckoFetcher struct {
	BaseURL  string
	Network  string
	PageSize int
	Client   *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGeckoFetcher creates a fetcher with optional proxy support.
func NewGeckoFetcher(baseURL, network string, pageSize int, proxyURL string) *GeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "geckoterminal",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[WARN] breaker %s: %s -> %s", name, from, to)
		},
	})
	return &GeckoFetcher{
		BaseURL:  baseURL,
		Network:  network,
		PageSize: pageSize,
		Client: &http.Client{
			Timeout:   20 * time.Second,
			Transport: transport,
		},
		// GeckoTerminal free tier allows 30 calls/minute.
		limiter: rate.NewLimiter(rate.Every(time.Minute/30), 1),
		breaker: breaker,
	}
}

func (f *GeckoFetcher) Name() string { return "geckoterminal" }

// envelope tolerates the two real-world response shapes: {"data":[...]} and
// {"success":{"data":[...]}}. Anything else decodes to an empty list.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success *struct {
		Data json.RawMessage `json:"data"`
	} `json:"success"`
}

func decodeList(body []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	if len(env.Data) > 0 {
		return env.Data
	}
	if env.Success != nil && len(env.Success.Data) > 0 {
		return env.Success.Data
	}
	return nil
}

// geckoPool is the expected JSON shape of one pool entry. Numeric attributes
// arrive as strings or numbers depending on the endpoint, hence interface{}.
type geckoPool struct {
	ID         string `json:"id"`
	Attributes struct {
		Token0 struct {
			Symbol string `json:"symbol"`
		} `json:"token0"`
		Token1 struct {
			Symbol string `json:"symbol"`
		} `json:"token1"`
		ReserveInUSD interface{}            `json:"reserve_in_usd"`
		VolumeUSD    map[string]interface{} `json:"volume_usd"`
		Transactions struct {
			H24 struct {
				Buys  interface{} `json:"buys"`
				Sells interface{} `json:"sells"`
			} `json:"h24"`
		} `json:"transactions"`
		PriceChangePercentage map[string]interface{} `json:"price_change_percentage"`
		PoolCreatedAt         string                 `json:"pool_created_at"`
		FDVUSD                interface{}            `json:"fdv_usd"`
		URL                   string                 `json:"url"`
	} `json:"attributes"`
}

// ListPools fetches the network's pools sorted by 24h volume upstream; the
// consumer re-sorts, so the order here is not a contract.
func (f *GeckoFetcher) ListPools(ctx context.Context) ([]model.Pool, error) {
	endpoint := fmt.Sprintf("%s/networks/%s/pools?sort=-volume_usd.h24&page[size]=%d",
		f.BaseURL, url.PathEscape(f.Network), f.PageSize)
	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch pools: %w", err)
	}

	var raw []geckoPool
	if list := decodeList(body); list != nil {
		if err := json.Unmarshal(list, &raw); err != nil {
			return nil, fmt.Errorf("decode pools: %w", err)
		}
	}

	pools := make([]model.Pool, 0, len(raw))
	for _, gp := range raw {
		if gp.ID == "" {
			continue
		}
		a := gp.Attributes
		buys := SafeInt(a.Transactions.H24.Buys)
		sells := SafeInt(a.Transactions.H24.Sells)
		p := model.Pool{
			ID:                gp.ID,
			Token0Symbol:      a.Token0.Symbol,
			Token1Symbol:      a.Token1.Symbol,
			LiquidityUSD:      SafeFloat(a.ReserveInUSD),
			Volume24hUSD:      SafeFloat(a.VolumeUSD["h24"]),
			Buys24h:           buys,
			Sells24h:          sells,
			Transactions24h:   buys + sells,
			PriceChangePct24h: SafeFloat(a.PriceChangePercentage["h24"]),
			FDVUSD:            SafeFloat(a.FDVUSD),
			URL:               a.URL,
		}
		if a.PoolCreatedAt != "" {
			if t, err := time.Parse(time.RFC3339, a.PoolCreatedAt); err == nil {
				p.CreatedAt = t
			}
		}
		pools = append(pools, p)
	}
	return pools, nil
}

// geckoTrade is the expected JSON shape of one trade entry.
type geckoTrade struct {
	Attributes struct {
		BlockTimestamp string      `json:"block_timestamp"`
		VolumeInUSD    interface{} `json:"volume_in_usd"`
		PriceToInUSD   interface{} `json:"price_to_in_usd"`
	} `json:"attributes"`
}

// ListTrades fetches the recent trades for one pool. Window filtering is the
// caller's concern; trades with unparseable timestamps are dropped.
func (f *GeckoFetcher) ListTrades(ctx context.Context, poolID string) ([]model.Trade, error) {
	endpoint := fmt.Sprintf("%s/networks/%s/pools/%s/trades",
		f.BaseURL, url.PathEscape(f.Network), url.PathEscape(poolID))
	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch trades %s: %w", poolID, err)
	}

	var raw []geckoTrade
	if list := decodeList(body); list != nil {
		if err := json.Unmarshal(list, &raw); err != nil {
			return nil, fmt.Errorf("decode trades %s: %w", poolID, err)
		}
	}

	trades := make([]model.Trade, 0, len(raw))
	for _, gt := range raw {
		ts, err := time.Parse(time.RFC3339, gt.Attributes.BlockTimestamp)
		if err != nil {
			continue
		}
		trades = append(trades, model.Trade{
			Timestamp: ts,
			AmountUSD: SafeFloat(gt.Attributes.VolumeInUSD),
			PriceUSD:  SafeFloat(gt.Attributes.PriceToInUSD),
		})
	}
	return trades, nil
}

func (f *GeckoFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	result, err := f.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", acceptHeader)
		resp, err := f.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
