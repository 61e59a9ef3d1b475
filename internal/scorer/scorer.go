package scorer

import (
	"math"
	"sort"
	"time"

	"TrendSentinel/internal/model"
)

// Weights holds the scoring coefficients. They are fixed for the life of a
// run so rankings stay comparable across cycles.
type Weights struct {
	Volume      float64
	TxCount     float64
	PriceChange float64
	Spike       float64
}

// DefaultWeights returns the canonical weight set.
func DefaultWeights() Weights {
	return Weights{Volume: 0.5, TxCount: 15, PriceChange: 50, Spike: 100}
}

// Scorer computes hotness scores for pools from their recent trades using
// the additive form:
//
//	score = vol*W_vol + tx*W_tx + |pctChange|*W_price + spike*W_spike
//
// where spike = windowVolume / max(volume24h, 1). The formula rewards both
// absolute activity and short-window surprise relative to the daily baseline.
type Scorer struct {
	Weights Weights
}

// Build derives a ScoredCandidate from a pool and its trades, considering
// only trades at or after windowStart.
func (s Scorer) Build(p model.Pool, trades []model.Trade, windowStart time.Time) model.ScoredCandidate {
	recent := recentTrades(trades, windowStart)

	var volume float64
	for _, t := range recent {
		volume += t.AmountUSD
	}

	pct := priceChangePct(recent)
	spike := volume / math.Max(p.Volume24hUSD, 1)

	c := model.ScoredCandidate{
		Pool:           p,
		Volume:         volume,
		TxCount:        len(recent),
		PriceChangePct: pct,
		SpikeRatio:     spike,
	}
	c.Score = volume*s.Weights.Volume +
		float64(c.TxCount)*s.Weights.TxCount +
		math.Abs(pct)*s.Weights.PriceChange +
		spike*s.Weights.Spike
	return c
}

// recentTrades keeps trades inside the window, ordered oldest first.
func recentTrades(trades []model.Trade, windowStart time.Time) []model.Trade {
	recent := make([]model.Trade, 0, len(trades))
	for _, t := range trades {
		if !t.Timestamp.Before(windowStart) {
			recent = append(recent, t)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.Before(recent[j].Timestamp)
	})
	return recent
}

// priceChangePct derives the window price move from the first and last
// priced trades. Fewer than 2 priced trades, or a zero first price, yields 0.
func priceChangePct(recent []model.Trade) float64 {
	var priced []float64
	for _, t := range recent {
		if t.PriceUSD > 0 {
			priced = append(priced, t.PriceUSD)
		}
	}
	if len(priced) < 2 {
		return 0
	}
	first, last := priced[0], priced[len(priced)-1]
	if first == 0 {
		return 0
	}
	return (last/first - 1) * 100
}

// Rank orders candidates descending by score; ties break by descending
// liquidity, then by ID ascending, so the ordering is deterministic.
func Rank(cands []model.ScoredCandidate) []model.ScoredCandidate {
	ranked := make([]model.ScoredCandidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].LiquidityUSD != ranked[j].LiquidityUSD {
			return ranked[i].LiquidityUSD > ranked[j].LiquidityUSD
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}
