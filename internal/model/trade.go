package model

import "time"

// Trade is a single transaction observed on a pool.
type Trade struct {
	Timestamp time.Time
	AmountUSD float64
	PriceUSD  float64 // 0 when the upstream price was absent or unparseable
}
