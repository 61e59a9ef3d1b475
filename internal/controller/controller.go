package controller

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"TrendSentinel/internal/filter"
	"TrendSentinel/internal/gateway"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/scorer"
	"TrendSentinel/internal/selector"
)

// Channel is the notification capability the controller publishes through.
// Only publishing failing aborts a cycle's output; the other three calls are
// best-effort.
type Channel interface {
	PublishWithRetry(ctx context.Context, text string, maxRetries int) (int, error)
	Pin(ctx context.Context, messageID int) error
	UnpinAll(ctx context.Context) error
	Delete(ctx context.Context, messageID int) error
}

// publishRetries bounds the backoff attempts for one cycle's publish.
const publishRetries = 3

// Options carries the deployment knobs for the publication cycle.
type Options struct {
	NetworkSlug  string
	TrendingSize int
	PollInterval time.Duration
	Lookback     time.Duration
}

// windowMultipliers is the progressive widening ladder: when the base
// lookback shows no qualifying activity the cycle retries with wider
// windows before giving up and publishing the liquidity fallback.
var windowMultipliers = []int{1, 3, 6}

// Controller drives the fetch -> filter -> score -> select -> format ->
// publish cycle on a fixed timer. It owns the only mutable state in the
// process: the previous message handle and the previous-cycle volume
// snapshot used for burst annotations.
type Controller struct {
	Gateway  *gateway.Gateway
	Filter   filter.Thresholds
	Scorer   scorer.Scorer
	Channel  Channel
	Recorder recorder.Recorder
	Opts     Options
	Ctx      context.Context

	cron *cron.Cron

	// mu serializes cycles: a tick firing while a cycle is in flight waits
	// for it instead of racing the message handle.
	mu            sync.Mutex
	lastMessageID int
	prevVolumes   map[string]float64

	statusMu    sync.Mutex
	lastRunAt   time.Time
	lastSummary string
}

// New creates a Controller. Construct a fresh one per test; all state lives
// on the instance.
func New(ctx context.Context, gw *gateway.Gateway, th filter.Thresholds, sc scorer.Scorer, ch Channel, rec recorder.Recorder, opts Options) *Controller {
	logger := cron.PrintfLogger(log.Default())
	return &Controller{
		Gateway:  gw,
		Filter:   th,
		Scorer:   sc,
		Channel:  ch,
		Recorder: rec,
		Opts:     opts,
		Ctx:      ctx,
		cron: cron.New(cron.WithChain(
			cron.Recover(logger),
			cron.DelayIfStillRunning(logger),
		)),
		prevVolumes: make(map[string]float64),
	}
}

// Start registers the recurring cycle and kicks off an immediate first run.
func (c *Controller) Start() error {
	spec := fmt.Sprintf("@every %dm", int(c.Opts.PollInterval.Minutes()))
	if _, err := c.cron.AddFunc(spec, c.RunCycle); err != nil {
		return fmt.Errorf("register cycle: %w", err)
	}
	c.cron.Start()
	log.Printf("[INFO] controller started, publishing %s", spec)
	go c.RunCycle()
	return nil
}

// Stop stops the timer; an in-flight cycle finishes on its own.
func (c *Controller) Stop() {
	c.cron.Stop()
	log.Println("[INFO] controller stopped")
}

// RunCycle executes one full publication cycle. Safe to call concurrently
// with the timer: cycles are mutually exclusive, a second caller blocks.
// No failure inside a cycle ever terminates the process.
func (c *Controller) RunCycle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] cycle panic recovered: %v", r)
		}
	}()

	ctx := c.Ctx
	now := time.Now().UTC()
	log.Println("[INFO] cycle: fetching pools")

	pools := c.Gateway.Pools(ctx)
	candidates := c.Filter.Apply(pools, now)
	trades := c.Gateway.Trades(ctx, candidates)

	res, observed := c.evaluate(now, pools, candidates, trades)
	bursts := c.burstDeltas(res.Items)
	text := notifier.FormatTrending(c.Opts.NetworkSlug, res, bursts)

	// The snapshot reflects what this cycle observed, whether or not the
	// publish below succeeds. A cycle that saw no pools at all leaves the
	// previous snapshot untouched.
	if len(pools) > 0 {
		c.prevVolumes = observed
	}

	c.retractPrevious(ctx)

	messageID, err := c.Channel.PublishWithRetry(ctx, text, publishRetries)
	if err != nil {
		log.Printf("[ERROR] cycle: publish failed, no message this cycle: %v", err)
		c.noteRun(now, res, false)
		return
	}
	if err := c.Channel.Pin(ctx, messageID); err != nil {
		log.Printf("[WARN] cycle: pin failed: %v", err)
	}
	c.lastMessageID = messageID

	c.recordCycle(res, messageID)
	c.noteRun(now, res, true)
	log.Printf("[INFO] cycle: published message %d (%d items, fallback=%v, window=%dm)",
		messageID, len(res.Items), res.IsFallback, res.WindowMinutes)
}

// evaluate runs the scoring ladder over progressively wider windows and
// returns the selected result plus the per-pool window volumes observed at
// the widest window evaluated. The snapshot only ever holds window volumes,
// so burst deltas across a fallback-to-trending transition compare like
// with like; a quiet cycle commits zeros and the next active cycle's full
// window volume shows up as the burst.
func (c *Controller) evaluate(now time.Time, pools, candidates []model.Pool, trades map[string][]model.Trade) (model.TrendingResult, map[string]float64) {
	var res model.TrendingResult
	observed := make(map[string]float64, len(candidates))

	for _, mult := range windowMultipliers {
		window := c.Opts.Lookback * time.Duration(mult)
		windowStart := now.Add(-window)

		scored := make([]model.ScoredCandidate, 0, len(candidates))
		for _, p := range candidates {
			scored = append(scored, c.Scorer.Build(p, trades[p.ID], windowStart))
		}
		ranked := scorer.Rank(scored)

		res = selector.SelectTop(ranked, pools, c.Opts.TrendingSize)
		res.WindowMinutes = int(window.Minutes())

		clear(observed)
		for _, s := range scored {
			observed[s.ID] = s.Volume
		}
		if !res.IsFallback {
			return res, observed
		}
	}
	return res, observed
}

// burstDeltas computes positive volume deltas versus the previous cycle for
// the pools about to be displayed. Pools without a prior observation get no
// entry.
func (c *Controller) burstDeltas(items []model.ScoredCandidate) map[string]float64 {
	bursts := make(map[string]float64)
	for _, it := range items {
		prev, ok := c.prevVolumes[it.ID]
		if !ok {
			continue
		}
		if delta := it.Volume - prev; delta > 0 {
			bursts[it.ID] = delta
		}
	}
	return bursts
}

// retractPrevious best-effort unpins and deletes the previous summary. A
// stale pinned message is cosmetic, so failures are logged and swallowed.
func (c *Controller) retractPrevious(ctx context.Context) {
	if err := c.Channel.UnpinAll(ctx); err != nil {
		log.Printf("[WARN] cycle: unpin failed: %v", err)
	}
	if c.lastMessageID == 0 {
		return
	}
	if err := c.Channel.Delete(ctx, c.lastMessageID); err != nil {
		log.Printf("[WARN] cycle: delete message %d failed: %v", c.lastMessageID, err)
	}
	c.lastMessageID = 0
}

func (c *Controller) recordCycle(res model.TrendingResult, messageID int) {
	evt := &recorder.CycleEvent{
		WindowMinutes: res.WindowMinutes,
		IsFallback:    res.IsFallback,
		ItemCount:     len(res.Items),
		MessageID:     messageID,
	}
	if len(res.Items) > 0 {
		top := res.Items[0]
		evt.TopPoolID = top.ID
		evt.TopPair = top.PairLabel()
		evt.TopScore = top.Score
		evt.TopVolumeUSD = top.Volume
	}
	if err := c.Recorder.RecordCycle(evt); err != nil {
		log.Printf("[ERROR] record cycle: %v", err)
	}
}

func (c *Controller) noteRun(at time.Time, res model.TrendingResult, published bool) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.lastRunAt = at
	mode := "trending"
	if res.IsFallback {
		mode = "liquidity fallback"
	}
	state := "published"
	if !published {
		state = "publish failed"
	}
	c.lastSummary = fmt.Sprintf("%s, %d items, window %dm, %s",
		mode, len(res.Items), res.WindowMinutes, state)
}

// HandleCommand processes a chat command and returns a reply. Commands are
// read-only; none of them can start a cycle.
func (c *Controller) HandleCommand(command string) string {
	switch command {
	case "/status":
		c.statusMu.Lock()
		defer c.statusMu.Unlock()
		if c.lastRunAt.IsZero() {
			return "No cycle has completed yet."
		}
		return fmt.Sprintf("Last cycle %s UTC: %s",
			c.lastRunAt.Format("2006-01-02 15:04:05"), c.lastSummary)
	default:
		return "Available commands:\n• /status"
	}
}
