package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TrendSentinel/internal/config"
	"TrendSentinel/internal/controller"
	"TrendSentinel/internal/filter"
	"TrendSentinel/internal/gateway"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/scorer"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TrendSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init market data gateway
	fetcher := gateway.NewGeckoFetcher(
		cfg.DataSource.BaseURL, cfg.DataSource.NetworkSlug,
		cfg.DataSource.PageSize, cfg.Proxy)
	gw := gateway.NewGateway(fetcher, cfg.DataSource.Workers)
	log.Printf("[INFO] data source: %s (network %s)", fetcher.Name(), cfg.DataSource.NetworkSlug)

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init controller
	ctrl := controller.New(ctx, gw,
		filter.Thresholds{
			MinLiquidityUSD: cfg.Filter.MinLiquidityUSD,
			MinVolume24hUSD: cfg.Filter.MinVolume24hUSD,
			MinBuys:         cfg.Filter.MinBuys,
			SellSkewLimit:   cfg.Filter.SellSkewLimit,
			MinAgeMinutes:   cfg.Filter.MinAgeMinutes,
		},
		scorer.Scorer{Weights: scorer.Weights{
			Volume:      cfg.Scoring.VolumeWeight,
			TxCount:     cfg.Scoring.TxWeight,
			PriceChange: cfg.Scoring.PriceWeight,
			Spike:       cfg.Scoring.SpikeWeight,
		}},
		tn, rec,
		controller.Options{
			NetworkSlug:  cfg.DataSource.NetworkSlug,
			TrendingSize: cfg.Trending.Size,
			PollInterval: time.Duration(cfg.Schedule.PollIntervalMinutes) * time.Minute,
			Lookback:     time.Duration(cfg.Trending.LookbackMinutes) * time.Minute,
		})
	if err := ctrl.Start(); err != nil {
		log.Fatalf("[FATAL] start controller: %v", err)
	}
	defer ctrl.Stop()

	// Start Telegram polling for read-only status queries
	go tn.StartPolling(ctx, ctrl.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	log.Println("[INFO] TrendSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TrendSentinel stopped")
}
