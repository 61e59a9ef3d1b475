package model

// ScoredCandidate is a Pool annotated with cycle-local derived metrics.
// Created during scoring, consumed by the formatter, never persisted.
type ScoredCandidate struct {
	Pool
	Volume         float64 // USD volume inside the lookback window
	TxCount        int     // trades inside the lookback window
	PriceChangePct float64 // first-to-last recent trade, 0 if fewer than 2 priced trades
	SpikeRatio     float64 // window volume relative to the 24h baseline
	Score          float64
}

// TrendingResult is one cycle's ranked output.
type TrendingResult struct {
	Items         []ScoredCandidate
	IsFallback    bool // true when the list is liquidity-sorted, not trending
	WindowMinutes int
}
