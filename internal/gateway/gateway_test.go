package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"

	"TrendSentinel/internal/model"
)

func TestPools_FailureDegradesToEmpty(t *testing.T) {
	gw := NewGateway(&MockFetcher{PoolsErr: errors.New("upstream down")}, 2)
	if pools := gw.Pools(context.Background()); len(pools) != 0 {
		t.Errorf("expected empty result on fetch failure, got %d pools", len(pools))
	}
}

// flakyFetcher fails trade fetches for one specific pool.
type flakyFetcher struct {
	MockFetcher
	failID string

	mu    sync.Mutex
	calls int
}

func (f *flakyFetcher) ListTrades(ctx context.Context, poolID string) ([]model.Trade, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if poolID == f.failID {
		return nil, errors.New("boom")
	}
	return f.MockFetcher.ListTrades(ctx, poolID)
}

func TestTrades_PerPoolFailureIsolated(t *testing.T) {
	pools := []model.Pool{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	f := &flakyFetcher{
		MockFetcher: MockFetcher{TradesData: map[string][]model.Trade{
			"a": {{AmountUSD: 1}},
			"c": {{AmountUSD: 3}},
		}},
		failID: "b",
	}

	out := NewGateway(f, 2).Trades(context.Background(), pools)

	if f.calls != 3 {
		t.Errorf("expected all 3 pools fetched, got %d calls", f.calls)
	}
	if len(out["a"]) != 1 || len(out["c"]) != 1 {
		t.Errorf("sibling pools should keep their trades: %v", out)
	}
	if len(out["b"]) != 0 {
		t.Errorf("failed pool should have no trades, got %v", out["b"])
	}
	if _, ok := out["b"]; !ok {
		t.Error("failed pool should still be present in the join")
	}
}

func TestTrades_AllSettledBeforeReturn(t *testing.T) {
	pools := make([]model.Pool, 20)
	data := make(map[string][]model.Trade, 20)
	for i := range pools {
		id := string(rune('a' + i))
		pools[i] = model.Pool{ID: id}
		data[id] = []model.Trade{{AmountUSD: float64(i)}}
	}

	out := NewGateway(&MockFetcher{TradesData: data}, 4).Trades(context.Background(), pools)
	if len(out) != len(pools) {
		t.Fatalf("join incomplete: got %d entries, want %d", len(out), len(pools))
	}
}
