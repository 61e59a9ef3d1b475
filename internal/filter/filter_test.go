package filter

import (
	"testing"
	"time"

	"TrendSentinel/internal/model"
)

func basePool() model.Pool {
	return model.Pool{
		ID:           "p1",
		LiquidityUSD: 10000,
		Volume24hUSD: 2000,
		Buys24h:      5,
		Sells24h:     1,
		CreatedAt:    time.Now().Add(-2 * time.Hour),
	}
}

func TestAccept_DefaultPolicy(t *testing.T) {
	th := DefaultThresholds()
	now := time.Now()

	tests := []struct {
		name   string
		mutate func(*model.Pool)
		want   bool
	}{
		{"healthy pool", func(p *model.Pool) {}, true},
		{"low liquidity", func(p *model.Pool) { p.LiquidityUSD = 200 }, false},
		{"low volume", func(p *model.Pool) { p.Volume24hUSD = 50 }, false},
		{"too few buys", func(p *model.Pool) { p.Buys24h = 1 }, false},
		{"sell skew", func(p *model.Pool) { p.Buys24h = 5; p.Sells24h = 20 }, false},
		{"too young", func(p *model.Pool) { p.CreatedAt = now.Add(-time.Minute) }, false},
		{"boundary liquidity", func(p *model.Pool) { p.LiquidityUSD = 5000 }, true},
		{"boundary age", func(p *model.Pool) { p.CreatedAt = now.Add(-15 * time.Minute) }, true},
	}
	for _, tt := range tests {
		p := basePool()
		tt.mutate(&p)
		if got := th.Accept(p, now); got != tt.want {
			t.Errorf("%s: Accept = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAccept_MissingBreakdownFailsClosed(t *testing.T) {
	// No transaction breakdown normalizes to buys=sells=0, which must be
	// rejected, not let through.
	p := basePool()
	p.Buys24h = 0
	p.Sells24h = 0
	if DefaultThresholds().Accept(p, time.Now()) {
		t.Error("pool with missing tx breakdown should be rejected")
	}
}

func TestAccept_Monotonicity(t *testing.T) {
	// A pool accepted at strict thresholds stays accepted at laxer ones.
	strict := Thresholds{MinLiquidityUSD: 5000, MinVolume24hUSD: 1000, MinBuys: 3, SellSkewLimit: 3, MinAgeMinutes: 15}
	lax := Thresholds{MinLiquidityUSD: 100, MinVolume24hUSD: 10, MinBuys: 1, SellSkewLimit: 3, MinAgeMinutes: 1}

	now := time.Now()
	pools := []model.Pool{
		basePool(),
		{ID: "p2", LiquidityUSD: 5000, Volume24hUSD: 1000, Buys24h: 3, CreatedAt: now.Add(-16 * time.Minute)},
		{ID: "p3", LiquidityUSD: 50000, Volume24hUSD: 90000, Buys24h: 40, Sells24h: 30, CreatedAt: now.Add(-24 * time.Hour)},
	}
	for _, p := range pools {
		if strict.Accept(p, now) && !lax.Accept(p, now) {
			t.Errorf("pool %s accepted at strict thresholds but rejected at laxer ones", p.ID)
		}
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	now := time.Now()
	a, b, c := basePool(), basePool(), basePool()
	a.ID, b.ID, c.ID = "a", "b", "c"
	b.LiquidityUSD = 1 // rejected

	kept := DefaultThresholds().Apply([]model.Pool{a, b, c}, now)
	if len(kept) != 2 || kept[0].ID != "a" || kept[1].ID != "c" {
		t.Fatalf("Apply = %v, want [a c]", kept)
	}
}
