package model

import "time"

// Pool represents a trading venue for two tokens on the configured chain.
// All numeric fields are normalized at the gateway boundary: missing or
// unparseable upstream values become 0, never NaN.
type Pool struct {
	ID                string
	Token0Symbol      string
	Token1Symbol      string
	LiquidityUSD      float64
	Volume24hUSD      float64
	Transactions24h   int
	Buys24h           int
	Sells24h          int
	CreatedAt         time.Time
	PriceChangePct24h float64
	FDVUSD            float64
	URL               string
}

// PairLabel returns "SYM0/SYM1", substituting "?" for missing symbols.
func (p Pool) PairLabel() string {
	t0, t1 := p.Token0Symbol, p.Token1Symbol
	if t0 == "" {
		t0 = "?"
	}
	if t1 == "" {
		t1 = "?"
	}
	return t0 + "/" + t1
}

// AgeAt returns how long the pool has existed at the given instant.
// Pools with an unknown creation time report zero age.
func (p Pool) AgeAt(now time.Time) time.Duration {
	if p.CreatedAt.IsZero() {
		return 0
	}
	return now.Sub(p.CreatedAt)
}
