package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsAndValidation(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file should use defaults: %v", err)
	}

	if cfg.DataSource.BaseURL != "https://api.geckoterminal.com/api/v2" {
		t.Errorf("default base URL = %q", cfg.DataSource.BaseURL)
	}
	if cfg.Trending.Size != 5 {
		t.Errorf("default trending size = %d, want 5", cfg.Trending.Size)
	}
	if cfg.Schedule.PollIntervalMinutes != 10 {
		t.Errorf("default poll interval = %d, want 10", cfg.Schedule.PollIntervalMinutes)
	}
	if cfg.Trending.LookbackMinutes != cfg.Schedule.PollIntervalMinutes {
		t.Errorf("lookback should default to the poll interval, got %d", cfg.Trending.LookbackMinutes)
	}
	if cfg.Filter.MinLiquidityUSD != 5000 || cfg.Filter.MinBuys != 3 {
		t.Errorf("filter defaults wrong: %+v", cfg.Filter)
	}
	if cfg.Scoring.SpikeWeight != 100 {
		t.Errorf("default spike weight = %v, want 100", cfg.Scoring.SpikeWeight)
	}

	// Missing credentials must fail validation.
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail without telegram credentials")
	}
	cfg.Telegram.BotToken = "token"
	cfg.Telegram.ChatID = "-100123"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate with credentials: %v", err)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
telegram:
  bot_token: file-token
  chat_id: "-100999"
data_source:
  network_slug: file-net
trending:
  size: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("NETWORK_SLUG", "env-net")
	t.Setenv("TRENDING_SIZE", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("env should override file: token = %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != "-100999" {
		t.Errorf("file value should survive without env: chat id = %q", cfg.Telegram.ChatID)
	}
	if cfg.DataSource.NetworkSlug != "env-net" {
		t.Errorf("network slug = %q, want env-net", cfg.DataSource.NetworkSlug)
	}
	if cfg.Trending.Size != 7 {
		t.Errorf("trending size = %d, want 7 from env", cfg.Trending.Size)
	}
}
