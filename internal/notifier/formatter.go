package notifier

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"TrendSentinel/internal/model"
)

// FormatUSD abbreviates a USD amount: >= 1,000,000 as $X.XXM, >= 1,000 as
// $X.XXK, otherwise $X.XX. Boundaries are inclusive, so 1000 is "$1.00K".
func FormatUSD(n float64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("$%.2fM", n/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("$%.2fK", n/1_000)
	}
	return fmt.Sprintf("$%.2f", n)
}

func numberEmoji(n int) string {
	emojis := map[int]string{1: "1️⃣", 2: "2️⃣", 3: "3️⃣", 4: "4️⃣", 5: "5️⃣"}
	if e, ok := emojis[n]; ok {
		return e
	}
	return fmt.Sprintf("%d.", n)
}

func poolLink(slug string, c model.ScoredCandidate) string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("https://www.geckoterminal.com/%s/pools/%s", slug, c.ID)
}

// FormatTrending renders one cycle's result into a Telegram HTML message.
// bursts maps pool id to a positive volume delta versus the previous cycle;
// pools without an entry get no burst line. Missing optional fields omit
// their line rather than rendering a zero.
func FormatTrending(slug string, res model.TrendingResult, bursts map[string]float64) string {
	var b strings.Builder

	switch {
	case res.IsFallback && len(res.Items) == 0:
		b.WriteString("📡 <b>Trending Watch</b>\n\n")
		b.WriteString("😴 <i>No pool data available right now.</i>\n")
		b.WriteString("🕒 Check back after the next cycle!\n")
		return b.String()
	case res.IsFallback:
		b.WriteString("😴 <b>Quiet Market — Liquidity Fallback</b>\n")
		b.WriteString("🕒 No qualifying activity; showing deepest pools instead\n\n")
	default:
		fmt.Fprintf(&b, "🔥 <b>Trending (%dm)</b>\n", res.WindowMinutes)
		b.WriteString("🕒 Snapshot of recent trades\n\n")
	}

	for i, c := range res.Items {
		fmt.Fprintf(&b, "%s <b>%s</b>\n", numberEmoji(i+1), c.PairLabel())
		fmt.Fprintf(&b, "💵 Vol: %s | 🧮 Trades: %s\n",
			FormatUSD(c.Volume), humanize.Comma(int64(c.TxCount)))
		fmt.Fprintf(&b, "💧 Liq: %s\n", FormatUSD(c.LiquidityUSD))
		if c.PriceChangePct != 0 {
			arrow := "📈"
			if c.PriceChangePct < 0 {
				arrow = "📉"
			}
			fmt.Fprintf(&b, "%s %+.2f%%\n", arrow, c.PriceChangePct)
		}
		if !res.IsFallback && c.SpikeRatio > 0 {
			fmt.Fprintf(&b, "🚀 Spike: %.1f%%\n", c.SpikeRatio*100)
		}
		if delta, ok := bursts[c.ID]; ok && delta > 0 {
			fmt.Fprintf(&b, "⚡ Burst: +%s\n", FormatUSD(delta))
		}
		if c.FDVUSD > 0 {
			fmt.Fprintf(&b, "🏦 FDV: %s\n", FormatUSD(c.FDVUSD))
		}
		fmt.Fprintf(&b, "<a href='%s'>View</a>\n\n", poolLink(slug, c))
	}

	fmt.Fprintf(&b, "<a href='https://www.geckoterminal.com/%s/pools'>View All Pools</a>", slug)
	return b.String()
}
