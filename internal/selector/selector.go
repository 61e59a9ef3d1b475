package selector

import (
	"sort"

	"TrendSentinel/internal/model"
)

// SelectTop picks the displayable top n from the ranked candidates.
//
// A candidate qualifies when it shows any recent activity (score > 0 or at
// least one recent trade). When nothing qualifies the market is quiet, and
// rather than publish an empty report the selector substitutes the top n of
// the unfiltered pool list sorted by liquidity, flagged as a fallback so the
// formatter labels it a liquidity listing instead of a trending one.
func SelectTop(ranked []model.ScoredCandidate, allPools []model.Pool, n int) model.TrendingResult {
	if n < 0 {
		n = 0
	}

	qualified := make([]model.ScoredCandidate, 0, len(ranked))
	for _, c := range ranked {
		if c.Score > 0 || c.TxCount > 0 {
			qualified = append(qualified, c)
		}
	}
	if len(qualified) > 0 {
		if len(qualified) > n {
			qualified = qualified[:n]
		}
		return model.TrendingResult{Items: qualified, IsFallback: false}
	}

	return model.TrendingResult{Items: liquidityTop(allPools, n), IsFallback: true}
}

// liquidityTop ranks raw pools by liquidity, with the same ID tie-break as
// the scorer so fallback listings are deterministic too.
func liquidityTop(pools []model.Pool, n int) []model.ScoredCandidate {
	sorted := make([]model.Pool, len(pools))
	copy(sorted, pools)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].LiquidityUSD != sorted[j].LiquidityUSD {
			return sorted[i].LiquidityUSD > sorted[j].LiquidityUSD
		}
		return sorted[i].ID < sorted[j].ID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	items := make([]model.ScoredCandidate, 0, len(sorted))
	for _, p := range sorted {
		items = append(items, model.ScoredCandidate{
			Pool:           p,
			Volume:         p.Volume24hUSD,
			TxCount:        p.Transactions24h,
			PriceChangePct: p.PriceChangePct24h,
		})
	}
	return items
}
