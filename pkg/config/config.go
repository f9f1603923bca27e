package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Timezone    string `yaml:"timezone"` // business timezone for day/week/month boundaries
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Reports struct {
		MetricsDir     string `yaml:"metrics_dir"`     // daily_metrics_YYYY-MM-DD.json files
		PredictionsDir string `yaml:"predictions_dir"` // predictions_YYYY-MM-DD.json files
	} `yaml:"reports"`
	Telegram struct {
		Enabled  bool          `yaml:"enabled"`
		BotToken string        `yaml:"bot_token"`
		ChatID   string        `yaml:"chat_id"`
		Timeout  time.Duration `yaml:"timeout"`
		SendPDF  bool          `yaml:"send_pdf"`
	} `yaml:"telegram"`
	MarketData struct {
		CryptoCompareURL string        `yaml:"cryptocompare_url"`
		CryptoCompareKey string        `yaml:"cryptocompare_key"`
		YahooQuoteURL    string        `yaml:"yahoo_quote_url"`
		CryptoSymbols    []string      `yaml:"crypto_symbols"`
		QuoteSymbols     []string      `yaml:"quote_symbols"`
		Timeout          time.Duration `yaml:"timeout"`
		Retries          int           `yaml:"retries"`
		CacheTTL         time.Duration `yaml:"cache_ttl"`
	} `yaml:"market_data"`
	News struct {
		FeedURL      string        `yaml:"feed_url"`
		MaxHeadlines int           `yaml:"max_headlines"`
		Timeout      time.Duration `yaml:"timeout"`
		CacheTTL     time.Duration `yaml:"cache_ttl"`
	} `yaml:"news"`
	Cache struct {
		MemorySize int `yaml:"memory_size"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Schedule struct {
		Morning   string `yaml:"morning"`
		Noon      string `yaml:"noon"`
		Evening   string `yaml:"evening"`
		Summary   string `yaml:"summary"`
		Weekly    string `yaml:"weekly"`
		Monthly   string `yaml:"monthly"`
		Heartbeat string `yaml:"heartbeat"`
	} `yaml:"schedule"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("CRYPTOCOMPARE_API_KEY"); v != "" {
		c.MarketData.CryptoCompareKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("CRYPTO_SYMBOLS"); v != "" {
		c.MarketData.CryptoSymbols = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q is not loadable: %w", c.Timezone, err)
	}
	if c.Reports.MetricsDir == "" {
		return fmt.Errorf("reports.metrics_dir is required")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

// Location resolves the configured business timezone.
// UTC is the fallback when the zone cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
