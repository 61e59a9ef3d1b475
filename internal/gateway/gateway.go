package gateway

import (
	"context"
	"log"
	"sync"

	"TrendSentinel/internal/model"
)

// Gateway wraps a Fetcher and isolates upstream failures: a failed call is
// logged and degrades to an empty result so the poll loop never crashes on
// bad upstream data. One pool's fetch failing never aborts its siblings.
type Gateway struct {
	Fetcher Fetcher
	Workers int
}

// NewGateway creates a Gateway with a bounded trade-fetch fan-out.
func NewGateway(f Fetcher, workers int) *Gateway {
	if workers < 1 {
		workers = 1
	}
	return &Gateway{Fetcher: f, Workers: workers}
}

// Pools returns the current pool list, or an empty list on fetch failure.
func (g *Gateway) Pools(ctx context.Context) []model.Pool {
	pools, err := g.Fetcher.ListPools(ctx)
	if err != nil {
		log.Printf("[WARN] %s: list pools failed: %v", g.Fetcher.Name(), err)
		return nil
	}
	return pools
}

// Trades fetches recent trades for every given pool concurrently and joins
// the results. Per-pool failures yield an empty slice for that pool only.
// The map is complete when this returns; scoring never races the fan-out.
func (g *Gateway) Trades(ctx context.Context, pools []model.Pool) map[string][]model.Trade {
	out := make(map[string][]model.Trade, len(pools))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, g.Workers)

	for _, p := range pools {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			trades, err := g.Fetcher.ListTrades(ctx, id)
			if err != nil {
				log.Printf("[WARN] %s: list trades for %s failed: %v", g.Fetcher.Name(), id, err)
				trades = nil
			}
			mu.Lock()
			out[id] = trades
			mu.Unlock()
		}(p.ID)
	}
	wg.Wait()
	return out
}
