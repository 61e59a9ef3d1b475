package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL     string `yaml:"base_url"`
		NetworkSlug string `yaml:"network_slug"`
		PageSize    int    `yaml:"page_size"`
		Workers     int    `yaml:"workers"`
	} `yaml:"data_source"`
	Schedule struct {
		PollIntervalMinutes int `yaml:"poll_interval_minutes"`
	} `yaml:"schedule"`
	Trending struct {
		Size            int `yaml:"size"`
		LookbackMinutes int `yaml:"lookback_minutes"`
	} `yaml:"trending"`
	// Filter overrides the quality thresholds. A zero value means "use the
	// stock default" below, so a threshold cannot be explicitly set to 0.
	Filter struct {
		MinLiquidityUSD float64 `yaml:"min_liquidity_usd"`
		MinVolume24hUSD float64 `yaml:"min_volume_24h_usd"`
		MinBuys         int     `yaml:"min_buys"`
		SellSkewLimit   float64 `yaml:"sell_skew_limit"`
		MinAgeMinutes   int     `yaml:"min_age_minutes"`
	} `yaml:"filter"`
	Scoring struct {
		VolumeWeight float64 `yaml:"volume_weight"`
		TxWeight     float64 `yaml:"tx_weight"`
		PriceWeight  float64 `yaml:"price_weight"`
		SpikeWeight  float64 `yaml:"spike_weight"`
	} `yaml:"scoring"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("GECKO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("NETWORK_SLUG"); v != "" {
		cfg.DataSource.NetworkSlug = v
	}
	if v := os.Getenv("TRENDING_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Trending.Size = n
		}
	}
	if v := os.Getenv("POLL_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.PollIntervalMinutes = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://api.geckoterminal.com/api/v2"
	}
	if cfg.DataSource.NetworkSlug == "" {
		cfg.DataSource.NetworkSlug = "besc-hyperchain"
	}
	if cfg.DataSource.PageSize == 0 {
		cfg.DataSource.PageSize = 50
	}
	if cfg.DataSource.Workers == 0 {
		cfg.DataSource.Workers = 4
	}
	if cfg.Schedule.PollIntervalMinutes == 0 {
		cfg.Schedule.PollIntervalMinutes = 10
	}
	if cfg.Trending.Size == 0 {
		cfg.Trending.Size = 5
	}
	if cfg.Trending.LookbackMinutes == 0 {
		cfg.Trending.LookbackMinutes = cfg.Schedule.PollIntervalMinutes
	}
	if cfg.Filter.MinLiquidityUSD == 0 {
		cfg.Filter.MinLiquidityUSD = 5000
	}
	if cfg.Filter.MinVolume24hUSD == 0 {
		cfg.Filter.MinVolume24hUSD = 1000
	}
	if cfg.Filter.MinBuys == 0 {
		cfg.Filter.MinBuys = 3
	}
	if cfg.Filter.SellSkewLimit == 0 {
		cfg.Filter.SellSkewLimit = 3.0
	}
	if cfg.Filter.MinAgeMinutes == 0 {
		cfg.Filter.MinAgeMinutes = 15
	}
	if cfg.Scoring.VolumeWeight == 0 {
		cfg.Scoring.VolumeWeight = 0.5
	}
	if cfg.Scoring.TxWeight == 0 {
		cfg.Scoring.TxWeight = 15
	}
	if cfg.Scoring.PriceWeight == 0 {
		cfg.Scoring.PriceWeight = 50
	}
	if cfg.Scoring.SpikeWeight == 0 {
		cfg.Scoring.SpikeWeight = 100
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Schedule.PollIntervalMinutes < 1 {
		return fmt.Errorf("schedule.poll_interval_minutes must be positive")
	}
	if c.Trending.Size < 1 {
		return fmt.Errorf("trending.size must be positive")
	}
	return nil
}
