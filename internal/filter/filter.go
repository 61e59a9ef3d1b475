package filter

import (
	"time"

	"TrendSentinel/internal/model"
)

// Thresholds holds the quality-filter policy. The shape is fixed; the values
// are deployment configuration.
type Thresholds struct {
	MinLiquidityUSD float64
	MinVolume24hUSD float64
	MinBuys         int
	SellSkewLimit   float64
	MinAgeMinutes   int
}

// DefaultThresholds returns the stock policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinLiquidityUSD: 5000,
		MinVolume24hUSD: 1000,
		MinBuys:         3,
		SellSkewLimit:   3.0,
		MinAgeMinutes:   15,
	}
}

// Accept reports whether a pool passes the quality policy at the given
// instant. Pools with a missing transaction breakdown carry buys=sells=0 and
// fail the MinBuys check, so unknowns are excluded rather than let through.
func (t Thresholds) Accept(p model.Pool, now time.Time) bool {
	if p.LiquidityUSD < t.MinLiquidityUSD {
		return false
	}
	if p.Volume24hUSD < t.MinVolume24hUSD {
		return false
	}
	if p.Buys24h < t.MinBuys {
		return false
	}
	// Dump-risk guard: heavy sell pressure relative to buys.
	if float64(p.Sells24h) > float64(p.Buys24h)*t.SellSkewLimit {
		return false
	}
	// Freshly created pools are honeypot bait until they age a little.
	if p.AgeAt(now) < time.Duration(t.MinAgeMinutes)*time.Minute {
		return false
	}
	return true
}

// Apply returns the pools that pass the policy, preserving input order.
func (t Thresholds) Apply(pools []model.Pool, now time.Time) []model.Pool {
	kept := make([]model.Pool, 0, len(pools))
	for _, p := range pools {
		if t.Accept(p, now) {
			kept = append(kept, p)
		}
	}
	return kept
}
