package notifier

import (
	"strings"
	"testing"

	"TrendSentinel/internal/model"
)

func TestFormatUSD_Bands(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{999, "$999.00"},
		{999.99, "$999.99"},
		{1000, "$1.00K"},
		{1500, "$1.50K"},
		{2000, "$2.00K"},
		{999_000, "$999.00K"},
		{1_000_000, "$1.00M"},
		{2_340_000, "$2.34M"},
	}
	for _, tt := range tests {
		if got := FormatUSD(tt.in); got != tt.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTrending_TrendingLayout(t *testing.T) {
	res := model.TrendingResult{
		WindowMinutes: 10,
		Items: []model.ScoredCandidate{
			{
				Pool: model.Pool{
					ID: "0xabc", Token0Symbol: "WETH", Token1Symbol: "USDC",
					LiquidityUSD: 10000,
				},
				Volume: 2000, TxCount: 5, PriceChangePct: 3.25, SpikeRatio: 0.1, Score: 42,
			},
		},
	}
	out := FormatTrending("besc-hyperchain", res, nil)

	for _, want := range []string{
		"Trending (10m)",
		"1️⃣ <b>WETH/USDC</b>",
		"Vol: $2.00K",
		"Trades: 5",
		"Liq: $10.00K",
		"📈 +3.25%",
		"Spike: 10.0%",
		"https://www.geckoterminal.com/besc-hyperchain/pools/0xabc",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Burst") {
		t.Errorf("unexpected burst annotation without prior snapshot:\n%s", out)
	}
}

func TestFormatTrending_MissingOptionalFields(t *testing.T) {
	// No token1 symbol, no price change, no FDV: lines are omitted, the
	// symbol renders as "?", and nothing panics.
	res := model.TrendingResult{
		WindowMinutes: 10,
		Items: []model.ScoredCandidate{
			{
				Pool:   model.Pool{ID: "p1", Token0Symbol: "TOK", LiquidityUSD: 500},
				Volume: 120, TxCount: 2,
			},
		},
	}
	out := FormatTrending("testnet", res, nil)

	if !strings.Contains(out, "<b>TOK/?</b>") {
		t.Errorf("expected ? substitution for missing symbol:\n%s", out)
	}
	for _, banned := range []string{"NaN", "FDV", "📈", "📉", "undefined"} {
		if strings.Contains(out, banned) {
			t.Errorf("output should not contain %q:\n%s", banned, out)
		}
	}
}

func TestFormatTrending_FallbackLayout(t *testing.T) {
	res := model.TrendingResult{
		WindowMinutes: 60,
		IsFallback:    true,
		Items: []model.ScoredCandidate{
			{
				Pool:   model.Pool{ID: "p1", Token0Symbol: "AAA", Token1Symbol: "BBB", LiquidityUSD: 8000},
				Volume: 0, TxCount: 0,
			},
		},
	}
	out := FormatTrending("testnet", res, nil)

	if !strings.Contains(out, "Quiet Market — Liquidity Fallback") {
		t.Errorf("expected fallback title:\n%s", out)
	}
	if strings.Contains(out, "Spike") {
		t.Errorf("fallback listing should not show spike ratios:\n%s", out)
	}
}

func TestFormatTrending_NoDataAtAll(t *testing.T) {
	res := model.TrendingResult{IsFallback: true}
	out := FormatTrending("testnet", res, nil)
	if !strings.Contains(out, "No pool data available") {
		t.Errorf("expected distinct no-data message:\n%s", out)
	}
}

func TestFormatTrending_BurstAnnotation(t *testing.T) {
	res := model.TrendingResult{
		WindowMinutes: 10,
		Items: []model.ScoredCandidate{
			{
				Pool:   model.Pool{ID: "pA", Token0Symbol: "A", Token1Symbol: "B", LiquidityUSD: 10000},
				Volume: 1500, TxCount: 4, Score: 10,
			},
		},
	}
	out := FormatTrending("testnet", res, map[string]float64{"pA": 500})
	if !strings.Contains(out, "Burst: +$500.00") {
		t.Errorf("expected burst annotation +$500.00:\n%s", out)
	}
}

func TestNumberEmoji(t *testing.T) {
	if got := numberEmoji(1); got != "1️⃣" {
		t.Errorf("numberEmoji(1) = %q", got)
	}
	if got := numberEmoji(7); got != "7." {
		t.Errorf("numberEmoji(7) = %q, want 7.", got)
	}
}
